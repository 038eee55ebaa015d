package notify

import (
	"context"
	"encoding/json"
	"time"

	"edustore/internal/pkg/config"
	"edustore/internal/pkg/errs"
	"edustore/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSender publishes purchase notifications to a durable queue consumed by
// the mailer worker. Sends are best-effort; the caller decides whether a
// failure matters.
type AMQPSender struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewAMQPSender(cfg config.NotifyConfig) (*AMQPSender, func(), error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to message broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open broker channel")
	}

	// Durable so queued notifications survive broker restarts.
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare notification queue")
	}

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}

	return &AMQPSender{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		timeout: cfg.Timeout,
	}, cleanup, nil
}

func (s *AMQPSender) Send(ctx context.Context, n commands.PurchaseNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := s.channel.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}
