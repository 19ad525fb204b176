package noop

import (
	"context"

	"github.com/rs/zerolog"

	"aria/internal/domain"
	"aria/internal/port"
)

type noopNotifier struct {
	log zerolog.Logger
}

// NewNoopNotifier creates a Notifier that only logs the alert.
func NewNoopNotifier(log zerolog.Logger) port.Notifier {
	return &noopNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *noopNotifier) NotifyPendingMint(_ context.Context, p *domain.PendingMint) error {
	n.log.Warn().
		Str("pending_id", p.ID.String()).
		Str("recipient", p.Recipient).
		Str("content_id", p.ContentID).
		Str("last_error", p.LastError).
		Bool("persisted", p.Persisted).
		Msg("[NOOP ALERT] pending mint needs reconciliation")
	return nil
}
