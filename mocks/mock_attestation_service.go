package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"aria/internal/domain"
)

// MockAttestationService is a mock implementation of service.AttestationService.
type MockAttestationService struct {
	mock.Mock
}

func (m *MockAttestationService) Analyze(ctx context.Context, sub *domain.DocumentSubmission) (*domain.PipelineResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineResult), args.Error(1)
}
