package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studybook/internal/models"
)

// MockSourceRepository is a mock implementation of repository.SourceRepository
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) Insert(ctx context.Context, source models.Source) (models.Source, error) {
	args := m.Called(ctx, source)
	return args.Get(0).(models.Source), args.Error(1)
}

func (m *MockSourceRepository) Get(ctx context.Context, id string) (*models.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Source), args.Error(1)
}

func (m *MockSourceRepository) List(ctx context.Context, filter models.SourceFilter) ([]models.Source, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Source), args.Error(1)
}

func (m *MockSourceRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSourceRepository) UpdateContent(ctx context.Context, id string, content, summary, status string) error {
	args := m.Called(ctx, id, content, summary, status)
	return args.Error(0)
}

func (m *MockSourceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSourceRepository) CountForNotebook(ctx context.Context, notebookID string) (int, int, error) {
	args := m.Called(ctx, notebookID)
	return args.Int(0), args.Int(1), args.Error(2)
}
