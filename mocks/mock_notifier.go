package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPendingMint(ctx context.Context, pending *domain.PendingMint) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}
