package port

import (
	"context"

	"aria/internal/domain"
)

// Minter records an attestation reference on the ledger.
type Minter interface {
	Mint(ctx context.Context, recipient, contentID string) (*domain.MintResult, error)
}
