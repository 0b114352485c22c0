package repository

import (
	"context"
	"errors"

	"github.com/vytor/studybook/internal/models"
)

// ErrNotFound is returned by update operations that match no row.
// Get methods return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// NotebookRepository handles notebook data access
type NotebookRepository interface {
	Insert(ctx context.Context, notebook models.Notebook) (models.Notebook, error)
	Get(ctx context.Context, id string) (*models.Notebook, error)
	ListByUser(ctx context.Context, userID string) ([]models.Notebook, error)
}

// SourceRepository handles source data access
type SourceRepository interface {
	Insert(ctx context.Context, source models.Source) (models.Source, error)
	Get(ctx context.Context, id string) (*models.Source, error)
	List(ctx context.Context, filter models.SourceFilter) ([]models.Source, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	UpdateContent(ctx context.Context, id string, content, summary, status string) error
	Delete(ctx context.Context, id string) error
	CountForNotebook(ctx context.Context, notebookID string) (total int, ready int, err error)
}

// NoteRepository handles note data access
type NoteRepository interface {
	Insert(ctx context.Context, note models.Note) (models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	ListByNotebook(ctx context.Context, notebookID string) ([]models.Note, error)
	Update(ctx context.Context, id, title, content string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
	CountForNotebook(ctx context.Context, notebookID string) (int, error)
}

// QuestionRepository handles quiz question data access
type QuestionRepository interface {
	Insert(ctx context.Context, question models.QuizQuestion) (models.QuizQuestion, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuizQuestion, error)
}

// QuizRepository handles quiz sessions and their attempts. Attempts are
// append-only.
type QuizRepository interface {
	InsertSession(ctx context.Context, session models.QuizSession) (models.QuizSession, error)
	CompleteSession(ctx context.Context, id string, completion models.SessionCompletion) (models.QuizSession, error)
	GetSession(ctx context.Context, id string) (*models.QuizSession, error)
	InsertAttempt(ctx context.Context, attempt models.QuizAttempt) (models.QuizAttempt, error)
	SessionAttempts(ctx context.Context, sessionID string) ([]models.QuizAttempt, error)
	Stats(ctx context.Context, notebookID, userID string) (models.QuizStats, error)
}
