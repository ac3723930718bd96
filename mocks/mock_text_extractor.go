package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	args := m.Called(ctx, document)
	return args.String(0), args.Error(1)
}
