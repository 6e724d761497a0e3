package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPageFetcher is a mock implementation of port.PageFetcher.
type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) FetchText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}
