package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
	"github.com/vytor/studybook/internal/repository/sqlite"
	"github.com/vytor/studybook/internal/services"
	"github.com/vytor/studybook/internal/testutil"
	"github.com/vytor/studybook/internal/testutil/mocks"
)

var (
	alice     = models.Principal{UserID: "alice", Email: "alice@example.com"}
	bob       = models.Principal{UserID: "bob", Email: "bob@example.com"}
	anonymous = models.Principal{}
)

type stack struct {
	sourceRepo repository.SourceRepository
	noteRepo   repository.NoteRepository
	quizRepo   repository.QuizRepository
	queue      *mocks.MockJobQueue

	notebooks services.NotebookService
	questions services.QuestionService
	quizzes   services.QuizService
	sources   services.SourceService
	notes     services.NoteService
	viewers   services.ViewerService
	progress  services.ProgressService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	st := &stack{
		sourceRepo: sqlite.NewSourceRepository(db),
		noteRepo:   sqlite.NewNoteRepository(db),
		quizRepo:   sqlite.NewQuizRepository(db),
		queue:      new(mocks.MockJobQueue),
	}
	st.notebooks = services.NewNotebookService(sqlite.NewNotebookRepository(db))
	st.questions = services.NewQuestionService(st.notebooks, sqlite.NewQuestionRepository(db))
	st.quizzes = services.NewQuizService(st.notebooks, st.questions, st.quizRepo, time.Hour)
	st.sources = services.NewSourceService(st.notebooks, st.sourceRepo, st.queue)
	st.notes = services.NewNoteService(st.notebooks, st.noteRepo)
	st.viewers = services.NewViewerService(st.notebooks, st.sourceRepo, 0)
	st.progress = services.NewProgressService(st.notebooks, st.sourceRepo, st.noteRepo, st.quizRepo)
	return st
}

func (st *stack) notebook(t *testing.T, owner models.Principal) *models.Notebook {
	t.Helper()
	nb, err := st.notebooks.Create(context.Background(), owner, "Biology", "cells and such")
	require.NoError(t, err)
	return nb
}

// requireCode fails unless err is an AppError with the given code.
func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
}
