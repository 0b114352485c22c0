package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/services"
)

// seededQuiz creates a notebook for alice with the sample bank and returns
// it with the questions keyed by id.
func seededQuiz(t *testing.T, st *stack) (*models.Notebook, map[string]models.QuizQuestion) {
	t.Helper()
	nb := st.notebook(t, alice)
	seeded, err := st.questions.SeedSamples(context.Background(), alice, nb.ID)
	require.NoError(t, err)
	byID := make(map[string]models.QuizQuestion, len(seeded))
	for _, q := range seeded {
		byID[q.ID] = q
	}
	return nb, byID
}

func TestQuizService_StartHidesCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, _ := seededQuiz(t, st)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{Count: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "active", view.State)
	assert.True(t, view.Live)
	assert.Equal(t, models.SessionPractice, view.SessionType)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.Equal(t, 0, view.CurrentIndex)
	require.NotNil(t, view.Question)
	assert.NotEmpty(t, view.Question.Options)
	assert.Nil(t, view.CurrentAnswer)
	assert.Equal(t, 1, st.quizzes.Live())

	rec, err := st.quizRepo.GetSession(ctx, view.SessionID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.QuestionsCount)
	assert.Nil(t, rec.CompletedAt)
}

func TestQuizService_StartErrors(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb := st.notebook(t, alice)

	_, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{})
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{SessionType: "speedrun"})
	requireCode(t, err, errors.ErrCodeValidation)

	_, err = st.quizzes.Start(ctx, anonymous, nb.ID, services.StartSessionInput{})
	requireCode(t, err, errors.ErrCodeUnauthorized)

	_, err = st.quizzes.Start(ctx, bob, nb.ID, services.StartSessionInput{})
	requireCode(t, err, errors.ErrCodeForbidden)
}

func TestQuizService_FullSession(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, bank := seededQuiz(t, st)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{Count: 2, SessionType: models.SessionExam})
	require.NoError(t, err)
	id := view.SessionID

	// First question right.
	first := bank[view.Question.ID]
	fb, err := st.quizzes.SubmitAnswer(ctx, alice, id, first.CorrectAnswer)
	require.NoError(t, err)
	assert.True(t, fb.IsCorrect)
	assert.Equal(t, first.CorrectAnswer, fb.CorrectAnswer)
	assert.Equal(t, first.Explanation, fb.Explanation)
	assert.Equal(t, 1, fb.Session.CorrectAnswers)
	require.NotNil(t, fb.Session.CurrentAnswer)
	assert.Equal(t, first.CorrectAnswer, *fb.Session.CurrentAnswer)

	_, err = st.quizzes.SubmitAnswer(ctx, alice, id, "again")
	requireCode(t, err, errors.ErrCodeConflict)

	next, err := st.quizzes.Next(ctx, alice, id)
	require.NoError(t, err)
	assert.True(t, next.Advanced)
	assert.Equal(t, 1, next.Session.CurrentIndex)
	assert.Equal(t, 100.0, next.Session.Progress)

	// Second question wrong.
	fb, err = st.quizzes.SubmitAnswer(ctx, alice, id, "definitely not an option")
	require.NoError(t, err)
	assert.False(t, fb.IsCorrect)
	assert.Equal(t, bank[next.Session.Question.ID].CorrectAnswer, fb.CorrectAnswer)

	last, err := st.quizzes.Next(ctx, alice, id)
	require.NoError(t, err)
	assert.False(t, last.Advanced, "no question after the last one")

	res, err := st.quizzes.Finish(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 2, res.TotalQuestions)
	require.NotNil(t, res.Session.CompletedAt)
	assert.Equal(t, 1, res.Session.CorrectAnswers)

	attempts, err := st.quizRepo.SessionAttempts(ctx, id)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)

	got, err := st.quizzes.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.State)

	_, err = st.quizzes.Next(ctx, alice, id)
	requireCode(t, err, errors.ErrCodeConflict)
	_, err = st.quizzes.SubmitAnswer(ctx, alice, id, "late")
	requireCode(t, err, errors.ErrCodeConflict)
}

func TestQuizService_OtherUserIsForbidden(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, _ := seededQuiz(t, st)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{})
	require.NoError(t, err)

	_, err = st.quizzes.Get(ctx, bob, view.SessionID)
	requireCode(t, err, errors.ErrCodeForbidden)
	_, err = st.quizzes.SubmitAnswer(ctx, bob, view.SessionID, "x")
	requireCode(t, err, errors.ErrCodeForbidden)
	_, err = st.quizzes.Finish(ctx, anonymous, view.SessionID)
	requireCode(t, err, errors.ErrCodeUnauthorized)
}

func TestQuizService_AbandonFallsBackToRecord(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, _ := seededQuiz(t, st)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{Count: 4})
	require.NoError(t, err)

	require.NoError(t, st.quizzes.Abandon(ctx, alice, view.SessionID))
	assert.Equal(t, 0, st.quizzes.Live())

	got, err := st.quizzes.Get(ctx, alice, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "abandoned", got.State)
	assert.False(t, got.Live)
	assert.Equal(t, 4, got.TotalQuestions)
	assert.Nil(t, got.Question)

	_, err = st.quizzes.Get(ctx, bob, view.SessionID)
	requireCode(t, err, errors.ErrCodeForbidden)

	_, err = st.quizzes.SubmitAnswer(ctx, alice, view.SessionID, "x")
	requireCode(t, err, errors.ErrCodeNotFound)

	_, err = st.quizzes.Get(ctx, alice, "no-such-session")
	requireCode(t, err, errors.ErrCodeNotFound)
}

func TestQuizService_ReapDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	nb, _ := seededQuiz(t, st)

	view, err := st.quizzes.Start(ctx, alice, nb.ID, services.StartSessionInput{})
	require.NoError(t, err)

	assert.Equal(t, 0, st.quizzes.Reap(time.Now()))
	assert.Equal(t, 1, st.quizzes.Live())

	assert.Equal(t, 1, st.quizzes.Reap(time.Now().Add(3*time.Hour)))
	assert.Equal(t, 0, st.quizzes.Live())

	_, err = st.quizzes.Next(ctx, alice, view.SessionID)
	requireCode(t, err, errors.ErrCodeNotFound)
}
