package services

import (
	"context"
	"math"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

// ProgressService aggregates a user's study activity in a notebook
type ProgressService interface {
	Get(ctx context.Context, p models.Principal, notebookID string) (*models.NotebookProgress, error)
}

type progressService struct {
	notebooks NotebookService
	sources   repository.SourceRepository
	notes     repository.NoteRepository
	quizzes   repository.QuizRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(notebooks NotebookService, sources repository.SourceRepository, notes repository.NoteRepository, quizzes repository.QuizRepository) ProgressService {
	return &progressService{notebooks: notebooks, sources: sources, notes: notes, quizzes: quizzes}
}

func (s *progressService) Get(ctx context.Context, p models.Principal, notebookID string) (*models.NotebookProgress, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}

	total, ready, err := s.sources.CountForNotebook(ctx, notebookID)
	if err != nil {
		log.Error("failed to count sources: %v", err)
		return nil, errors.NewInternalError(err)
	}
	notes, err := s.notes.CountForNotebook(ctx, notebookID)
	if err != nil {
		log.Error("failed to count notes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	stats, err := s.quizzes.Stats(ctx, notebookID, p.UserID)
	if err != nil {
		log.Error("failed to load quiz stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.NotebookProgress{
		NotebookID:         notebookID,
		TotalSources:       total,
		ReadySources:       ready,
		TotalNotes:         notes,
		QuizzesTaken:       stats.SessionsStarted,
		QuizzesCompleted:   stats.SessionsCompleted,
		TotalQuizQuestions: stats.Attempts,
		CorrectAnswers:     stats.CorrectAttempts,
		QuizSuccessRate:    successRate(stats.CorrectAttempts, stats.Attempts),
		StudyTimeSeconds:   stats.TotalTimeSeconds,
	}, nil
}

// successRate is correct/total as a percentage with one decimal, 0 when
// nothing was answered.
func successRate(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
