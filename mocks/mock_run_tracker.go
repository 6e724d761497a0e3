package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"feedgen/internal/domain"
)

// MockRunTracker is a mock implementation of handler.RunTracker.
type MockRunTracker struct {
	mock.Mock
}

func (m *MockRunTracker) Start() (*domain.Run, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockRunTracker) Get(id uuid.UUID) (*domain.Run, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}
