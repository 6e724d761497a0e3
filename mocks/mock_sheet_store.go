package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"feedgen/internal/domain"
)

// MockSheetStore is a mock implementation of port.SheetStore.
type MockSheetStore struct {
	mock.Mock
}

func (m *MockSheetStore) ReadRows(ctx context.Context, sheet string) ([]domain.InputRecord, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InputRecord), args.Error(1)
}

func (m *MockSheetStore) ReadTable(ctx context.Context, sheet string) ([][]string, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *MockSheetStore) WriteRows(ctx context.Context, sheet string, startRow int, rows [][]string) error {
	args := m.Called(ctx, sheet, startRow, rows)
	return args.Error(0)
}

func (m *MockSheetStore) ReadCell(ctx context.Context, sheet string, row, col int) (string, error) {
	args := m.Called(ctx, sheet, row, col)
	return args.String(0), args.Error(1)
}

func (m *MockSheetStore) ClearRows(ctx context.Context, sheet string, startRow int) error {
	args := m.Called(ctx, sheet, startRow)
	return args.Error(0)
}
