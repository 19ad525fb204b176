package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
	"aria/internal/export"
)

// MockReconcileService is a mock implementation of service.ReconcileService.
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) List(ctx context.Context, status domain.PendingMintStatus, offset, limit int) ([]domain.PendingMint, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PendingMint), args.Int(1), args.Error(2)
}

func (m *MockReconcileService) Get(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingMint), args.Error(1)
}

func (m *MockReconcileService) Retry(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingMint), args.Error(1)
}

func (m *MockReconcileService) Abandon(ctx context.Context, id uuid.UUID) (*domain.PendingMint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingMint), args.Error(1)
}

func (m *MockReconcileService) Export(ctx context.Context, w io.Writer, format export.Format, status domain.PendingMintStatus) (int, error) {
	args := m.Called(ctx, w, format, status)
	return args.Int(0), args.Error(1)
}
