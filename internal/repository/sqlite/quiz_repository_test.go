package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
	"github.com/vytor/studybook/internal/repository/sqlite"
	"github.com/vytor/studybook/internal/testutil"
)

type QuizRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.QuizRepository
	notebook  models.Notebook
	questions []models.QuizQuestion
}

func (s *QuizRepositorySuite) SetupTest() {
	ctx := context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewQuizRepository(s.db)

	nb, err := sqlite.NewNotebookRepository(s.db).Insert(ctx, models.Notebook{UserID: "user-1", Title: "Biology"})
	s.Require().NoError(err)
	s.notebook = nb

	qrepo := sqlite.NewQuestionRepository(s.db)
	s.questions = nil
	for _, q := range []models.QuizQuestion{
		{NotebookID: nb.ID, Question: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris"},
		{NotebookID: nb.ID, Question: "6 x 7?", Options: []string{"42", "7"}, CorrectAnswer: "42"},
	} {
		inserted, err := qrepo.Insert(ctx, q)
		s.Require().NoError(err)
		s.questions = append(s.questions, inserted)
	}
}

func (s *QuizRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *QuizRepositorySuite) newSession() models.QuizSession {
	session, err := s.repo.InsertSession(context.Background(), models.QuizSession{
		UserID:         "user-1",
		NotebookID:     s.notebook.ID,
		SessionType:    models.SessionPractice,
		QuestionsCount: len(s.questions),
	})
	s.Require().NoError(err)
	return session
}

func (s *QuizRepositorySuite) TestInsertAndGetSession() {
	ctx := context.Background()
	session := s.newSession()
	s.NotEmpty(session.ID)
	s.False(session.CreatedAt.IsZero())

	got, err := s.repo.GetSession(ctx, session.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(models.SessionPractice, got.SessionType)
	s.Equal(2, got.QuestionsCount)
	s.Equal(0, got.CorrectAnswers)
	s.Nil(got.CompletedAt)
}

func (s *QuizRepositorySuite) TestGetSession_NotFound() {
	got, err := s.repo.GetSession(context.Background(), "missing")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *QuizRepositorySuite) TestInsertSession_RejectsUnknownType() {
	_, err := s.repo.InsertSession(context.Background(), models.QuizSession{
		UserID:      "user-1",
		NotebookID:  s.notebook.ID,
		SessionType: "marathon",
	})
	s.Error(err)
}

func (s *QuizRepositorySuite) TestCompleteSession() {
	ctx := context.Background()
	session := s.newSession()
	completedAt := time.Now().UTC().Truncate(time.Second)

	updated, err := s.repo.CompleteSession(ctx, session.ID, models.SessionCompletion{
		CorrectAnswers: 1,
		TotalTime:      37,
		CompletedAt:    completedAt,
	})
	s.Require().NoError(err)
	s.Equal(1, updated.CorrectAnswers)
	s.Equal(37, updated.TotalTime)
	s.Require().NotNil(updated.CompletedAt)
	s.True(updated.CompletedAt.Equal(completedAt))
}

func (s *QuizRepositorySuite) TestCompleteSession_NotFound() {
	_, err := s.repo.CompleteSession(context.Background(), "missing", models.SessionCompletion{CompletedAt: time.Now()})
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *QuizRepositorySuite) TestAttemptsAndStats() {
	ctx := context.Background()
	session := s.newSession()

	for i, answer := range []string{"Paris", "7"} {
		q := s.questions[i]
		_, err := s.repo.InsertAttempt(ctx, models.QuizAttempt{
			SessionID:        session.ID,
			UserID:           "user-1",
			NotebookID:       s.notebook.ID,
			QuestionID:       q.ID,
			UserAnswer:       answer,
			IsCorrect:        answer == q.CorrectAnswer,
			TimeTakenSeconds: 5 * (i + 1),
		})
		s.Require().NoError(err)
	}

	attempts, err := s.repo.SessionAttempts(ctx, session.ID)
	s.Require().NoError(err)
	s.Require().Len(attempts, 2)
	s.True(attempts[0].IsCorrect)
	s.False(attempts[1].IsCorrect)
	s.Equal(10, attempts[1].TimeTakenSeconds)

	_, err = s.repo.CompleteSession(ctx, session.ID, models.SessionCompletion{CorrectAnswers: 1, TotalTime: 12, CompletedAt: time.Now()})
	s.Require().NoError(err)
	s.newSession()

	stats, err := s.repo.Stats(ctx, s.notebook.ID, "user-1")
	s.Require().NoError(err)
	s.Equal(2, stats.SessionsStarted)
	s.Equal(1, stats.SessionsCompleted)
	s.Equal(2, stats.Attempts)
	s.Equal(1, stats.CorrectAttempts)
	s.Equal(12, stats.TotalTimeSeconds)

	other, err := s.repo.Stats(ctx, s.notebook.ID, "someone-else")
	s.Require().NoError(err)
	s.Equal(models.QuizStats{}, other)
}

func TestQuizRepositorySuite(t *testing.T) {
	suite.Run(t, new(QuizRepositorySuite))
}
