package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockExtractionCache is a mock implementation of port.ExtractionCache.
type MockExtractionCache struct {
	mock.Mock
}

func (m *MockExtractionCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExtractionCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
