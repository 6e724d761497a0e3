package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"feedgen/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendExportReadyEmail(ctx context.Context, toEmail string, n port.ExportNotification) error {
	args := m.Called(ctx, toEmail, n)
	return args.Error(0)
}
