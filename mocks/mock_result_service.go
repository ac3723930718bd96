package mocks

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"vtuportal/internal/domain"
	"vtuportal/internal/semester"
	"vtuportal/internal/service"
)

// MockResultService is a mock implementation of service.ResultService.
type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) Evaluate(ctx context.Context, input service.EvaluateInput) (*domain.Evaluation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}

func (m *MockResultService) Lookup(ctx context.Context, usn, semesterID string) (*domain.ResultRow, error) {
	args := m.Called(ctx, usn, semesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultRow), args.Error(1)
}

func (m *MockResultService) History(ctx context.Context, usn string) ([]domain.ResultRow, error) {
	args := m.Called(ctx, usn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResultRow), args.Error(1)
}

func (m *MockResultService) ListRecords(ctx context.Context, offset, limit int) ([]domain.ResultRow, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ResultRow), args.Int(1), args.Error(2)
}

func (m *MockResultService) ExportRecords(ctx context.Context, w io.Writer, format domain.ExportFormat) error {
	args := m.Called(ctx, w, format)
	return args.Error(0)
}

func (m *MockResultService) Semesters() []*semester.Config {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*semester.Config)
}

func (m *MockResultService) ReadUpload(file multipart.File, header *multipart.FileHeader) ([]byte, error) {
	args := m.Called(file, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockResultService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
