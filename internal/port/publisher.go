package port

import (
	"context"

	"aria/internal/domain"
)

// Publisher pins attestation metadata to content-addressable storage.
type Publisher interface {
	Publish(ctx context.Context, metadata *domain.AttestationMetadata, name string) (*domain.PublishedArtifact, error)
}
