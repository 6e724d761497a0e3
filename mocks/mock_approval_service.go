package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"feedgen/internal/domain"
)

// MockApprovalService is a mock implementation of service.ApprovalService.
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) List(ctx context.Context) ([]*domain.GenerationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GenerationResult), args.Error(1)
}

func (m *MockApprovalService) Approve(ctx context.Context, itemIDs []string) (int, error) {
	args := m.Called(ctx, itemIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockApprovalService) Unapprove(ctx context.Context, itemIDs []string) (int, error) {
	args := m.Called(ctx, itemIDs)
	return args.Int(0), args.Error(1)
}
