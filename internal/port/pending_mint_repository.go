package port

import (
	"context"

	"github.com/google/uuid"

	"aria/internal/domain"
)

// PendingMintRepository persists published-but-unminted artifacts.
type PendingMintRepository interface {
	Create(ctx context.Context, pending *domain.PendingMint) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error)
	List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error)
	RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error
	MarkResolved(ctx context.Context, id uuid.UUID, txID string) error
	MarkAbandoned(ctx context.Context, id uuid.UUID) error
}
