package bootstrap

import (
	"context"
	"log/slog"

	"edustore/internal/infra/notify"
	"edustore/internal/pkg/config"
	"edustore/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewNotificationSender,
	),
)

// NewNotificationSender wires the AMQP publisher when a broker URL is set and
// falls back to a no-op sender otherwise. Startup never fails on a mailer.
func NewNotificationSender(lc fx.Lifecycle, cfg config.Config) commands.NotificationSender {
	if cfg.Notify.AMQPURL == "" {
		return notify.NewNoopSender()
	}

	sender, cleanup, err := notify.NewAMQPSender(cfg.Notify)
	if err != nil {
		slog.Warn("message broker unavailable; notifications disabled", "error", err.Error())
		return notify.NewNoopSender()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return sender
}
