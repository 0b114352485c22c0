package services

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

// DefaultQuizLength is used when a random selection does not name a count.
const DefaultQuizLength = 10

const maxQuizLength = 100

// DifficultyStats counts a notebook's questions per difficulty.
type DifficultyStats struct {
	Easy    int `json:"easy"`
	Medium  int `json:"medium"`
	Hard    int `json:"hard"`
	Unrated int `json:"unrated"`
	Total   int `json:"total"`
}

// QuestionService handles the quiz question bank of a notebook
type QuestionService interface {
	List(ctx context.Context, p models.Principal, notebookID, difficulty string) ([]models.QuizQuestion, DifficultyStats, error)
	Create(ctx context.Context, p models.Principal, notebookID string, q models.QuizQuestion) (*models.QuizQuestion, error)
	Random(ctx context.Context, p models.Principal, notebookID string, count int, difficulty string) ([]models.QuizQuestion, error)
	SeedSamples(ctx context.Context, p models.Principal, notebookID string) ([]models.QuizQuestion, error)
}

type questionService struct {
	notebooks NotebookService
	repo      repository.QuestionRepository
	shuffle   func(n int, swap func(i, j int))
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(notebooks NotebookService, repo repository.QuestionRepository) QuestionService {
	return &questionService{notebooks: notebooks, repo: repo, shuffle: rand.Shuffle}
}

// normalizeDifficulty maps "" and "all" to no filter.
func normalizeDifficulty(d string) (string, error) {
	d = strings.ToLower(strings.TrimSpace(d))
	switch d {
	case "", "all":
		return "", nil
	case "easy", "medium", "hard":
		return d, nil
	}
	return "", errors.NewValidationError("difficulty", "must be 'easy', 'medium', 'hard' or 'all'")
}

func (s *questionService) List(ctx context.Context, p models.Principal, notebookID, difficulty string) ([]models.QuizQuestion, DifficultyStats, error) {
	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, DifficultyStats{}, err
	}
	all, err := s.repo.List(ctx, models.QuestionFilter{NotebookID: notebookID})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list questions: %v", err)
		return nil, DifficultyStats{}, errors.NewInternalError(err)
	}

	stats := difficultyStats(all)
	d, err := normalizeDifficulty(difficulty)
	if err != nil {
		return nil, DifficultyStats{}, err
	}
	out := filterByDifficulty(all, d)
	if out == nil {
		out = []models.QuizQuestion{}
	}
	return out, stats, nil
}

func (s *questionService) Create(ctx context.Context, p models.Principal, notebookID string, q models.QuizQuestion) (*models.QuizQuestion, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	if err := validateQuestion(&q); err != nil {
		return nil, err
	}
	q.NotebookID = notebookID

	saved, err := s.repo.Insert(ctx, q)
	if err != nil {
		log.Error("failed to create question: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("question created: id=%s, notebook_id=%s", saved.ID, notebookID)
	return &saved, nil
}

func validateQuestion(q *models.QuizQuestion) error {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return errors.NewValidationError("question", "must not be empty")
	}
	if q.CorrectAnswer == "" {
		return errors.NewValidationError("correct_answer", "must not be empty")
	}
	if q.QuestionType == "" {
		q.QuestionType = models.QuestionTypeMultipleChoice
	}
	if q.QuestionType == models.QuestionTypeMultipleChoice {
		if len(q.Options) < 2 {
			return errors.NewValidationError("options", "multiple choice questions need at least two options")
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return errors.NewValidationError("correct_answer", "must be one of the options")
		}
	}
	if q.Difficulty != nil {
		d, err := normalizeDifficulty(*q.Difficulty)
		if err != nil {
			return err
		}
		if d == "" {
			q.Difficulty = nil
		} else {
			q.Difficulty = &d
		}
	}
	return nil
}

// Random returns up to count shuffled questions, optionally of one difficulty.
func (s *questionService) Random(ctx context.Context, p models.Principal, notebookID string, count int, difficulty string) ([]models.QuizQuestion, error) {
	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultQuizLength
	}
	if count > maxQuizLength {
		return nil, errors.NewValidationError("count", "must be at most 100")
	}
	d, err := normalizeDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.List(ctx, models.QuestionFilter{NotebookID: notebookID, Difficulty: d})
	if err != nil {
		logger.FromContext(ctx).Error("failed to load question pool: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > count {
		pool = pool[:count]
	}
	if pool == nil {
		pool = []models.QuizQuestion{}
	}
	return pool, nil
}

func (s *questionService) SeedSamples(ctx context.Context, p models.Principal, notebookID string) ([]models.QuizQuestion, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}

	created := make([]models.QuizQuestion, 0, len(sampleQuestions))
	for _, q := range sampleQuestions {
		q.NotebookID = notebookID
		q.Options = slices.Clone(q.Options)
		saved, err := s.repo.Insert(ctx, q)
		if err != nil {
			log.Error("failed to seed sample question: %v", err)
			return nil, errors.NewInternalError(err)
		}
		created = append(created, saved)
	}

	log.Info("created %d sample quiz questions for notebook %s", len(created), notebookID)
	return created, nil
}

func filterByDifficulty(qs []models.QuizQuestion, d string) []models.QuizQuestion {
	if d == "" {
		return qs
	}
	var out []models.QuizQuestion
	for _, q := range qs {
		if q.Difficulty != nil && *q.Difficulty == d {
			out = append(out, q)
		}
	}
	return out
}

func difficultyStats(qs []models.QuizQuestion) DifficultyStats {
	var st DifficultyStats
	for _, q := range qs {
		st.Total++
		if q.Difficulty == nil {
			st.Unrated++
			continue
		}
		switch *q.Difficulty {
		case "easy":
			st.Easy++
		case "medium":
			st.Medium++
		case "hard":
			st.Hard++
		default:
			st.Unrated++
		}
	}
	return st
}
