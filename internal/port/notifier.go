package port

import (
	"context"

	"aria/internal/domain"
)

// Notifier alerts operators about artifacts that need manual reconciliation.
type Notifier interface {
	NotifyPendingMint(ctx context.Context, pending *domain.PendingMint) error
}
