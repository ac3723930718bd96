package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vtuportal/internal/domain"
)

// MockResultRepo is a mock implementation of port.ResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) FindByExternalID(ctx context.Context, usn string) (*domain.ResultRow, error) {
	args := m.Called(ctx, usn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultRow), args.Error(1)
}

func (m *MockResultRepo) FindByExternalIDAndSemester(ctx context.Context, usn, semesterLabel string) (*domain.ResultRow, error) {
	args := m.Called(ctx, usn, semesterLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultRow), args.Error(1)
}

func (m *MockResultRepo) ListByExternalID(ctx context.Context, usn string) ([]domain.ResultRow, error) {
	args := m.Called(ctx, usn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResultRow), args.Error(1)
}

func (m *MockResultRepo) List(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResultRow), args.Int(1), args.Error(2)
}

func (m *MockResultRepo) Upsert(ctx context.Context, row *domain.ResultRow) (domain.UpsertAction, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(domain.UpsertAction), args.Error(1)
}

func (m *MockResultRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
