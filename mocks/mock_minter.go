package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
)

// MockMinter is a mock implementation of port.Minter.
type MockMinter struct {
	mock.Mock
}

func (m *MockMinter) Mint(ctx context.Context, recipient, contentID string) (*domain.MintResult, error) {
	args := m.Called(ctx, recipient, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MintResult), args.Error(1)
}
