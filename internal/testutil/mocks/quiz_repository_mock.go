package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studybook/internal/models"
)

// MockQuizRepository is a mock implementation of repository.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) InsertSession(ctx context.Context, session models.QuizSession) (models.QuizSession, error) {
	args := m.Called(ctx, session)
	if fn, ok := args.Get(0).(func(context.Context, models.QuizSession) models.QuizSession); ok {
		return fn(ctx, session), args.Error(1)
	}
	return args.Get(0).(models.QuizSession), args.Error(1)
}

func (m *MockQuizRepository) CompleteSession(ctx context.Context, id string, completion models.SessionCompletion) (models.QuizSession, error) {
	args := m.Called(ctx, id, completion)
	return args.Get(0).(models.QuizSession), args.Error(1)
}

func (m *MockQuizRepository) GetSession(ctx context.Context, id string) (*models.QuizSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizSession), args.Error(1)
}

func (m *MockQuizRepository) InsertAttempt(ctx context.Context, attempt models.QuizAttempt) (models.QuizAttempt, error) {
	args := m.Called(ctx, attempt)
	if fn, ok := args.Get(0).(func(context.Context, models.QuizAttempt) models.QuizAttempt); ok {
		return fn(ctx, attempt), args.Error(1)
	}
	return args.Get(0).(models.QuizAttempt), args.Error(1)
}

func (m *MockQuizRepository) SessionAttempts(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizAttempt), args.Error(1)
}

func (m *MockQuizRepository) Stats(ctx context.Context, notebookID, userID string) (models.QuizStats, error) {
	args := m.Called(ctx, notebookID, userID)
	return args.Get(0).(models.QuizStats), args.Error(1)
}
