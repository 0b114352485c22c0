package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/quiz"
	"github.com/vytor/studybook/internal/repository"
)

// DefaultSessionTTL is how long an idle live session is kept.
const DefaultSessionTTL = 2 * time.Hour

type StartSessionInput struct {
	SessionType models.SessionType
	Count       int
	Difficulty  string
}

// QuestionView is a question as shown while it is unanswered. The correct
// answer is only revealed through AnswerFeedback.
type QuestionView struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Difficulty   *string  `json:"difficulty"`
}

type SessionView struct {
	SessionID      string             `json:"session_id"`
	NotebookID     string             `json:"notebook_id"`
	SessionType    models.SessionType `json:"session_type"`
	State          string             `json:"state"`
	Live           bool               `json:"live"`
	CurrentIndex   int                `json:"current_index"`
	TotalQuestions int                `json:"total_questions"`
	Progress       float64            `json:"progress"`
	CorrectAnswers int                `json:"correct_answers"`
	Answered       int                `json:"answered"`
	Question       *QuestionView      `json:"question,omitempty"`
	CurrentAnswer  *string            `json:"current_answer,omitempty"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	TotalTime      int                `json:"total_time,omitempty"`
}

type AnswerFeedback struct {
	IsCorrect     bool               `json:"is_correct"`
	CorrectAnswer string             `json:"correct_answer"`
	Explanation   string             `json:"explanation,omitempty"`
	Attempt       models.QuizAttempt `json:"attempt"`
	Session       SessionView        `json:"session"`
}

type NextResult struct {
	Advanced bool        `json:"advanced"`
	Session  SessionView `json:"session"`
}

type FinishResult struct {
	Score          int                `json:"score"`
	TotalQuestions int                `json:"total_questions"`
	TimeSpent      int                `json:"time_spent"`
	Session        models.QuizSession `json:"session"`
}

// QuizService runs live quiz sessions. It holds one engine per started
// session, keyed by session id and owned by the user who started it.
type QuizService interface {
	Start(ctx context.Context, p models.Principal, notebookID string, in StartSessionInput) (*SessionView, error)
	Get(ctx context.Context, p models.Principal, sessionID string) (*SessionView, error)
	SubmitAnswer(ctx context.Context, p models.Principal, sessionID, answer string) (*AnswerFeedback, error)
	Next(ctx context.Context, p models.Principal, sessionID string) (*NextResult, error)
	Finish(ctx context.Context, p models.Principal, sessionID string) (*FinishResult, error)
	Abandon(ctx context.Context, p models.Principal, sessionID string) error
	Reap(now time.Time) int
	Live() int
}

type liveSession struct {
	engine   *quiz.Engine
	owner    string
	lastUsed time.Time
}

type quizService struct {
	notebooks NotebookService
	questions QuestionService
	repo      repository.QuizRepository
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewQuizService creates a new QuizService
func NewQuizService(notebooks NotebookService, questions QuestionService, repo repository.QuizRepository, ttl time.Duration) QuizService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &quizService{
		notebooks: notebooks,
		questions: questions,
		repo:      repo,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*liveSession),
	}
}

// mapQuizError converts engine errors to application errors.
func mapQuizError(err error) error {
	var perr *quiz.PersistenceError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &perr):
		return errors.NewPersistenceError(perr.Op, perr.Err)
	case stderrors.Is(err, quiz.ErrAuthenticationRequired):
		return errors.NewUnauthorizedError("sign in to take a quiz")
	case stderrors.Is(err, quiz.ErrNoQuestions):
		return errors.NewValidationError("questions", "this notebook has no quiz questions yet")
	case stderrors.Is(err, quiz.ErrInvalidSessionType):
		return errors.NewValidationError("session_type", "must be 'practice', 'timed' or 'exam'")
	case stderrors.Is(err, quiz.ErrSubmissionInFlight),
		stderrors.Is(err, quiz.ErrAlreadyAnswered),
		stderrors.Is(err, quiz.ErrAlreadyStarted),
		stderrors.Is(err, quiz.ErrNotActive),
		stderrors.Is(err, quiz.ErrNoSession):
		return errors.NewConflictError(err.Error(), err)
	}
	return errors.NewInternalError(err)
}

func (s *quizService) Start(ctx context.Context, p models.Principal, notebookID string, in StartSessionInput) (*SessionView, error) {
	log := logger.FromContext(ctx)

	if !p.Authenticated() {
		return nil, mapQuizError(quiz.ErrAuthenticationRequired)
	}
	if in.SessionType != "" && !in.SessionType.Valid() {
		return nil, mapQuizError(quiz.ErrInvalidSessionType)
	}
	questions, err := s.questions.Random(ctx, p, notebookID, in.Count, in.Difficulty)
	if err != nil {
		return nil, err
	}

	engine := quiz.NewEngine(s.repo)
	session, err := engine.Start(ctx, p, notebookID, questions, in.SessionType)
	if err != nil {
		log.Warn("failed to start quiz: notebook_id=%s: %v", notebookID, err)
		return nil, mapQuizError(err)
	}

	s.mu.Lock()
	s.sessions[session.ID] = &liveSession{engine: engine, owner: p.UserID, lastUsed: s.now()}
	s.mu.Unlock()

	view := viewOf(engine)
	return &view, nil
}

// lookup returns the live session for sessionID after checking ownership,
// refreshing its idle timer.
func (s *quizService) lookup(p models.Principal, sessionID string) (*liveSession, error) {
	if !p.Authenticated() {
		return nil, mapQuizError(quiz.ErrAuthenticationRequired)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if ls.owner != p.UserID {
		return nil, errors.NewForbiddenError("quiz session", sessionID)
	}
	ls.lastUsed = s.now()
	return ls, nil
}

func (s *quizService) live(p models.Principal, sessionID string) (*liveSession, error) {
	ls, err := s.lookup(p, sessionID)
	if err != nil {
		return nil, err
	}
	if ls == nil {
		return nil, errors.NewNotFoundError("live quiz session", sessionID)
	}
	return ls, nil
}

func (s *quizService) Get(ctx context.Context, p models.Principal, sessionID string) (*SessionView, error) {
	ls, err := s.lookup(p, sessionID)
	if err != nil {
		return nil, err
	}
	if ls != nil {
		view := viewOf(ls.engine)
		return &view, nil
	}

	// Not live any more: report what was persisted.
	rec, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load quiz session %s: %v", sessionID, err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("quiz session", sessionID)
	}
	if rec.UserID != p.UserID {
		return nil, errors.NewForbiddenError("quiz session", sessionID)
	}
	view := viewOfRecord(*rec)
	return &view, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, p models.Principal, sessionID, answer string) (*AnswerFeedback, error) {
	ls, err := s.live(p, sessionID)
	if err != nil {
		return nil, err
	}
	q := ls.engine.CurrentQuestion()

	res, err := ls.engine.SubmitAnswer(ctx, answer)
	if err != nil {
		return nil, mapQuizError(err)
	}

	fb := &AnswerFeedback{
		IsCorrect: res.IsCorrect,
		Attempt:   res.Attempt,
		Session:   viewOf(ls.engine),
	}
	if q != nil {
		fb.CorrectAnswer = q.CorrectAnswer
		fb.Explanation = q.Explanation
	}
	return fb, nil
}

func (s *quizService) Next(ctx context.Context, p models.Principal, sessionID string) (*NextResult, error) {
	ls, err := s.live(p, sessionID)
	if err != nil {
		return nil, err
	}
	if ls.engine.State() != quiz.Active {
		return nil, mapQuizError(quiz.ErrNotActive)
	}
	advanced := ls.engine.NextQuestion()
	return &NextResult{Advanced: advanced, Session: viewOf(ls.engine)}, nil
}

func (s *quizService) Finish(ctx context.Context, p models.Principal, sessionID string) (*FinishResult, error) {
	ls, err := s.live(p, sessionID)
	if err != nil {
		return nil, err
	}
	res, err := ls.engine.Finish(ctx)
	if err != nil {
		return nil, mapQuizError(err)
	}
	return &FinishResult{
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		TimeSpent:      res.TimeSpent,
		Session:        res.Session,
	}, nil
}

// Abandon discards the live session without touching the persisted record.
func (s *quizService) Abandon(ctx context.Context, p models.Principal, sessionID string) error {
	ls, err := s.live(p, sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	ls.engine.Reset()
	logger.FromContext(ctx).Info("quiz session abandoned: id=%s", sessionID)
	return nil
}

// Reap resets and drops sessions idle for longer than the TTL. Sessions
// with a submission in flight are kept until the next pass.
func (s *quizService) Reap(now time.Time) int {
	s.mu.Lock()
	var expired []*liveSession
	for id, ls := range s.sessions {
		if now.Sub(ls.lastUsed) < s.ttl || ls.engine.Submitting() {
			continue
		}
		expired = append(expired, ls)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, ls := range expired {
		ls.engine.Reset()
	}
	if len(expired) > 0 {
		logger.Default().WithPrefix("quiz").Info("reaped %d idle quiz sessions", len(expired))
	}
	return len(expired)
}

func (s *quizService) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func viewOf(e *quiz.Engine) SessionView {
	view := SessionView{State: e.State().String(), Live: true}
	d := e.Snapshot()
	if d == nil {
		return view
	}
	view.SessionID = d.SessionID
	view.NotebookID = d.NotebookID
	view.SessionType = d.SessionType
	view.CurrentIndex = d.CurrentQuestion
	view.TotalQuestions = len(d.Questions)
	view.Progress = e.Progress()
	view.CorrectAnswers = d.CorrectAnswers
	view.Answered = len(d.Answers)
	view.StartedAt = d.StartTime

	q := d.Questions[d.CurrentQuestion]
	view.Question = &QuestionView{
		ID:           q.ID,
		Question:     q.Question,
		QuestionType: q.QuestionType,
		Options:      q.Options,
		Difficulty:   q.Difficulty,
	}
	if a, ok := d.Answers[q.ID]; ok {
		view.CurrentAnswer = &a
	}
	return view
}

func viewOfRecord(rec models.QuizSession) SessionView {
	state := "abandoned"
	if rec.CompletedAt != nil {
		state = quiz.Completed.String()
	}
	return SessionView{
		SessionID:      rec.ID,
		NotebookID:     rec.NotebookID,
		SessionType:    rec.SessionType,
		State:          state,
		TotalQuestions: rec.QuestionsCount,
		CorrectAnswers: rec.CorrectAnswers,
		StartedAt:      rec.CreatedAt,
		CompletedAt:    rec.CompletedAt,
		TotalTime:      rec.TotalTime,
	}
}
