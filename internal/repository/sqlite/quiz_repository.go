package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

var sessionColumns = []string{
	"id", "user_id", "notebook_id", "session_type", "questions_count",
	"correct_answers", "total_time", "completed_at", "created_at",
}

var attemptColumns = []string{
	"id", "session_id", "user_id", "notebook_id", "question_id",
	"user_answer", "is_correct", "time_taken_seconds", "created_at",
}

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new QuizRepository implementation
func NewQuizRepository(db *sql.DB) repository.QuizRepository {
	return &quizRepository{db: db}
}

func scanSession(row rowScanner) (models.QuizSession, error) {
	var (
		s           models.QuizSession
		sessionType string
		completedAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.UserID, &s.NotebookID, &sessionType, &s.QuestionsCount,
		&s.CorrectAnswers, &s.TotalTime, &completedAt, &s.CreatedAt)
	if err != nil {
		return s, err
	}
	s.SessionType = models.SessionType(sessionType)
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return s, nil
}

func (r *quizRepository) InsertSession(ctx context.Context, s models.QuizSession) (models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	if s.ID == "" {
		s.ID = newID()
	}
	s.CreatedAt = now()
	log.Debug("inserting quiz session: user_id=%s, notebook_id=%s, type=%s, questions=%d",
		s.UserID, s.NotebookID, s.SessionType, s.QuestionsCount)

	var completedAt interface{}
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}

	query, args, err := sqlBuilder.Insert("quiz_sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, s.NotebookID, string(s.SessionType), s.QuestionsCount,
			s.CorrectAnswers, s.TotalTime, completedAt, s.CreatedAt).
		ToSql()
	if err != nil {
		return models.QuizSession{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert quiz session: %v", err)
		return models.QuizSession{}, err
	}
	log.Debug("quiz session inserted: id=%s", s.ID)
	return s, nil
}

func (r *quizRepository) CompleteSession(ctx context.Context, id string, c models.SessionCompletion) (models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("completing quiz session: id=%s, correct=%d, total_time=%d", id, c.CorrectAnswers, c.TotalTime)

	var updated models.QuizSession
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		query, args, err := sqlBuilder.Update("quiz_sessions").
			Set("correct_answers", c.CorrectAnswers).
			Set("total_time", c.TotalTime).
			Set("completed_at", c.CompletedAt).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := t.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return repository.ErrNotFound
		}

		query, args, err = sqlBuilder.Select(sessionColumns...).
			From("quiz_sessions").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		updated, err = scanSession(t.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		log.Error("failed to complete quiz session: %v", err)
		return models.QuizSession{}, err
	}
	return updated, nil
}

func (r *quizRepository) GetSession(ctx context.Context, id string) (*models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("fetching quiz session: id=%s", id)

	query, args, err := sqlBuilder.Select(sessionColumns...).
		From("quiz_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("quiz session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get quiz session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *quizRepository) InsertAttempt(ctx context.Context, a models.QuizAttempt) (models.QuizAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	if a.ID == "" {
		a.ID = newID()
	}
	a.CreatedAt = now()
	log.Debug("inserting quiz attempt: session_id=%s, question_id=%s", a.SessionID, a.QuestionID)

	query, args, err := sqlBuilder.Insert("quiz_attempts").
		Columns(attemptColumns...).
		Values(a.ID, a.SessionID, a.UserID, a.NotebookID, a.QuestionID,
			a.UserAnswer, a.IsCorrect, a.TimeTakenSeconds, a.CreatedAt).
		ToSql()
	if err != nil {
		return models.QuizAttempt{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert quiz attempt: %v", err)
		return models.QuizAttempt{}, err
	}
	return a, nil
}

func (r *quizRepository) SessionAttempts(ctx context.Context, sessionID string) ([]models.QuizAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("fetching quiz attempts: session_id=%s", sessionID)

	query, args, err := sqlBuilder.Select(attemptColumns...).
		From("quiz_attempts").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query quiz attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.SessionID, &a.UserID, &a.NotebookID, &a.QuestionID,
			&a.UserAnswer, &a.IsCorrect, &a.TimeTakenSeconds, &a.CreatedAt); err != nil {
			log.Error("failed to scan quiz attempt: %v", err)
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *quizRepository) Stats(ctx context.Context, notebookID, userID string) (models.QuizStats, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz_repo")
	log.Debug("fetching quiz stats: notebook_id=%s, user_id=%s", notebookID, userID)

	var stats models.QuizStats
	query, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN completed_at IS NOT NULL THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(total_time), 0)",
	).From("quiz_sessions").
		Where(squirrel.Eq{"notebook_id": notebookID, "user_id": userID}).
		ToSql()
	if err != nil {
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&stats.SessionsStarted, &stats.SessionsCompleted, &stats.TotalTimeSeconds); err != nil {
		log.Error("failed to aggregate quiz sessions: %v", err)
		return stats, err
	}

	query, args, err = sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0)",
	).From("quiz_attempts").
		Where(squirrel.Eq{"notebook_id": notebookID, "user_id": userID}).
		ToSql()
	if err != nil {
		return stats, err
	}
	if err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&stats.Attempts, &stats.CorrectAttempts); err != nil {
		log.Error("failed to aggregate quiz attempts: %v", err)
		return stats, err
	}
	return stats, nil
}
