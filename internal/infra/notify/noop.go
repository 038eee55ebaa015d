package notify

import (
	"context"
	"log/slog"

	"edustore/internal/usecase/commands"
)

// NoopSender stands in when no broker is configured. Entitlement grants never
// depend on the mailer being reachable.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, n commands.PurchaseNotification) error {
	slog.Info("notification suppressed; no broker configured",
		"recipient", n.Recipient,
		"template", n.TemplateKind)
	return nil
}
