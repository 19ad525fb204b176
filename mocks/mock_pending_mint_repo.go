package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
)

// MockPendingMintRepo is a mock implementation of port.PendingMintRepository.
type MockPendingMintRepo struct {
	mock.Mock
}

func (m *MockPendingMintRepo) Create(ctx context.Context, pending *domain.PendingMint) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingMintRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingMint), args.Error(1)
}

func (m *MockPendingMintRepo) List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PendingMint), args.Int(1), args.Error(2)
}

func (m *MockPendingMintRepo) RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockPendingMintRepo) MarkResolved(ctx context.Context, id uuid.UUID, txID string) error {
	args := m.Called(ctx, id, txID)
	return args.Error(0)
}

func (m *MockPendingMintRepo) MarkAbandoned(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
