package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vtuportal/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GetObject(ctx context.Context, bucket, key string) (*port.Object, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Object), args.Error(1)
}

func (m *MockObjectStorage) PutObject(ctx context.Context, input port.PutInput) (*port.PutOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PutOutput), args.Error(1)
}

func (m *MockObjectStorage) HeadBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}
