package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
)

// MockPublisher is a mock implementation of port.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, metadata *domain.AttestationMetadata, name string) (*domain.PublishedArtifact, error) {
	args := m.Called(ctx, metadata, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishedArtifact), args.Error(1)
}
