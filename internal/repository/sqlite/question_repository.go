package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

var questionColumns = []string{
	"id", "notebook_id", "question", "question_type", "options", "correct_answer",
	"explanation", "difficulty", "source_reference", "created_at",
}

type questionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Insert(ctx context.Context, q models.QuizQuestion) (models.QuizQuestion, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	if q.ID == "" {
		q.ID = newID()
	}
	if q.QuestionType == "" {
		q.QuestionType = models.QuestionTypeMultipleChoice
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	q.CreatedAt = now()
	log.Debug("inserting question: id=%s, notebook_id=%s", q.ID, q.NotebookID)

	options, err := json.Marshal(q.Options)
	if err != nil {
		return models.QuizQuestion{}, fmt.Errorf("encode options: %w", err)
	}
	var difficulty sql.NullString
	if q.Difficulty != nil {
		difficulty = sql.NullString{String: *q.Difficulty, Valid: true}
	}

	query, args, err := sqlBuilder.Insert("quiz_questions").
		Columns(questionColumns...).
		Values(q.ID, q.NotebookID, q.Question, q.QuestionType, string(options), q.CorrectAnswer,
			q.Explanation, difficulty, q.SourceReference, q.CreatedAt).
		ToSql()
	if err != nil {
		return models.QuizQuestion{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert question: %v", err)
		return models.QuizQuestion{}, err
	}
	return q, nil
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuizQuestion, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("listing questions: notebook_id=%s, difficulty=%s", filter.NotebookID, filter.Difficulty)

	q := sqlBuilder.Select(questionColumns...).From("quiz_questions")
	if filter.NotebookID != "" {
		q = q.Where(squirrel.Eq{"notebook_id": filter.NotebookID})
	}
	if filter.Difficulty != "" {
		q = q.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	query, args, err := q.OrderBy("created_at ASC", "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var (
			qq         models.QuizQuestion
			options    string
			difficulty sql.NullString
		)
		if err := rows.Scan(&qq.ID, &qq.NotebookID, &qq.Question, &qq.QuestionType, &options, &qq.CorrectAnswer,
			&qq.Explanation, &difficulty, &qq.SourceReference, &qq.CreatedAt); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(options), &qq.Options); err != nil {
			log.Warn("question %s has malformed options, treating as empty: %v", qq.ID, err)
			qq.Options = []string{}
		}
		if difficulty.Valid {
			d := difficulty.String
			qq.Difficulty = &d
		}
		questions = append(questions, qq)
	}
	log.Debug("found %d questions", len(questions))
	return questions, rows.Err()
}
