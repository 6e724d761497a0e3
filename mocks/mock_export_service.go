package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"feedgen/internal/domain"
)

// MockExportService is a mock implementation of service.ExportService.
// WriteCSV and WriteXLSX write the Content field when no error is configured.
type MockExportService struct {
	mock.Mock
	Content string
}

func (m *MockExportService) Export(ctx context.Context) (*domain.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportResult), args.Error(1)
}

func (m *MockExportService) WriteCSV(ctx context.Context, w io.Writer) error {
	return m.write(m.Called(ctx, w), w)
}

func (m *MockExportService) WriteXLSX(ctx context.Context, w io.Writer) error {
	return m.write(m.Called(ctx, w), w)
}

func (m *MockExportService) write(args mock.Arguments, w io.Writer) error {
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, m.Content)
	return err
}
