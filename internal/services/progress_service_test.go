package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/services"
)

func TestProgressService_EmptyNotebook(t *testing.T) {
	st := newStack(t)
	nb := st.notebook(t, alice)

	p, err := st.progress.Get(context.Background(), alice, nb.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotebookProgress{NotebookID: nb.ID}, *p)
}

func TestProgressService_CountsActivity(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, bank := seededQuiz(t, st)
	textSource(t, st, nb)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{Count: 3})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		answer := "wrong"
		if i == 0 {
			answer = bank[view.Question.ID].CorrectAnswer
		}
		_, err := st.quizzes.SubmitAnswer(ctx, alice, view.SessionID, answer)
		require.NoError(t, err)
		next, err := st.quizzes.Next(ctx, alice, view.SessionID)
		require.NoError(t, err)
		view = &next.Session
	}
	_, err = st.quizzes.Finish(ctx, alice, view.SessionID)
	require.NoError(t, err)

	_, err = st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{Count: 1})
	require.NoError(t, err)
	for _, title := range []string{"Cells", "Energy"} {
		_, err := st.notes.Create(ctx, alice, nb.ID, services.NoteInput{Title: title, Content: "summary"})
		require.NoError(t, err)
	}

	p, err := st.progress.Get(ctx, alice, nb.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalSources)
	assert.Equal(t, 1, p.ReadySources)
	assert.Equal(t, 2, p.TotalNotes)
	assert.Equal(t, 2, p.QuizzesTaken)
	assert.Equal(t, 1, p.QuizzesCompleted)
	assert.Equal(t, 3, p.TotalQuizQuestions)
	assert.Equal(t, 1, p.CorrectAnswers)
	assert.Equal(t, 33.3, p.QuizSuccessRate)

	_, err = st.progress.Get(ctx, bob, nb.ID)
	requireCode(t, err, errors.ErrCodeForbidden)
}
