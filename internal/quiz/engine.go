// Package quiz drives a single linear pass through a fixed list of quiz
// questions: answers are scored and recorded one at a time through a Store,
// and a summary is produced when the pass is finished.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
)

var (
	ErrAuthenticationRequired = errors.New("user not authenticated")
	ErrNoQuestions            = errors.New("quiz has no questions")
	ErrInvalidSessionType     = errors.New("invalid session type")
	ErrAlreadyStarted         = errors.New("session already started")
	ErrNotActive              = errors.New("session is not active")
	ErrSubmissionInFlight     = errors.New("an answer is already being submitted")
	ErrAlreadyAnswered        = errors.New("question already answered")
	ErrNoSession              = errors.New("no persisted session")
)

// PersistenceError wraps a failed Store call. Local state is left as it was
// before the call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("quiz %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store is the persistence collaborator for sessions and attempts.
type Store interface {
	InsertSession(ctx context.Context, session models.QuizSession) (models.QuizSession, error)
	InsertAttempt(ctx context.Context, attempt models.QuizAttempt) (models.QuizAttempt, error)
	CompleteSession(ctx context.Context, id string, completion models.SessionCompletion) (models.QuizSession, error)
}

type State int

const (
	Uninitialized State = iota
	Active
	Completed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// SessionData is the in-memory state of a running session.
type SessionData struct {
	SessionID       string
	UserID          string
	NotebookID      string
	SessionType     models.SessionType
	CurrentQuestion int
	Questions       []models.QuizQuestion
	Answers         map[string]string
	CorrectAnswers  int
	StartTime       time.Time
}

type SubmitResult struct {
	IsCorrect bool
	Attempt   models.QuizAttempt
}

type Result struct {
	Session        models.QuizSession
	Score          int
	TotalQuestions int
	TimeSpent      int // seconds
}

// Engine owns one session. It is safe for concurrent use, but only one
// SubmitAnswer may be outstanding at a time.
type Engine struct {
	store Store
	now   func() time.Time

	mu         sync.Mutex
	state      State
	data       *SessionData
	submitting bool
	generation uint64
}

type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start persists a new session record and initialises local state from it.
// An empty session type defaults to practice.
func (e *Engine) Start(ctx context.Context, principal models.Principal, notebookID string, questions []models.QuizQuestion, sessionType models.SessionType) (models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if !principal.Authenticated() {
		return models.QuizSession{}, ErrAuthenticationRequired
	}
	if len(questions) == 0 {
		return models.QuizSession{}, ErrNoQuestions
	}
	if sessionType == "" {
		sessionType = models.SessionPractice
	}
	if !sessionType.Valid() {
		return models.QuizSession{}, ErrInvalidSessionType
	}

	e.mu.Lock()
	if e.state != Uninitialized || e.submitting {
		e.mu.Unlock()
		return models.QuizSession{}, ErrAlreadyStarted
	}
	// Reserve the engine while the insert runs.
	e.submitting = true
	gen := e.generation
	e.mu.Unlock()

	session, err := e.store.InsertSession(ctx, models.QuizSession{
		UserID:         principal.UserID,
		NotebookID:     notebookID,
		SessionType:    sessionType,
		QuestionsCount: len(questions),
		CorrectAnswers: 0,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		if err != nil {
			return models.QuizSession{}, &PersistenceError{Op: "start session", Err: err}
		}
		log.Warn("session %s created after reset, ignoring", session.ID)
		return session, ErrNotActive
	}
	e.submitting = false
	if err != nil {
		log.Error("failed to create quiz session: %v", err)
		return models.QuizSession{}, &PersistenceError{Op: "start session", Err: err}
	}

	qs := make([]models.QuizQuestion, len(questions))
	copy(qs, questions)
	e.data = &SessionData{
		SessionID:       session.ID,
		UserID:          principal.UserID,
		NotebookID:      notebookID,
		SessionType:     sessionType,
		CurrentQuestion: 0,
		Questions:       qs,
		Answers:         make(map[string]string, len(qs)),
		CorrectAnswers:  0,
		StartTime:       e.now(),
	}
	e.state = Active
	log.Info("quiz session started: id=%s, type=%s, questions=%d", session.ID, sessionType, len(qs))
	return session, nil
}

// SubmitAnswer scores answer against the current question with exact string
// comparison and records the attempt. Local state changes only after the
// store accepts the attempt. It does not advance to the next question.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) (SubmitResult, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	e.mu.Lock()
	if e.state != Active {
		e.mu.Unlock()
		return SubmitResult{}, ErrNotActive
	}
	if e.submitting {
		e.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}
	d := e.data
	q := d.Questions[d.CurrentQuestion]
	if _, answered := d.Answers[q.ID]; answered {
		e.mu.Unlock()
		return SubmitResult{}, ErrAlreadyAnswered
	}
	e.submitting = true
	gen := e.generation
	attempt := models.QuizAttempt{
		SessionID:        d.SessionID,
		UserID:           d.UserID,
		NotebookID:       d.NotebookID,
		QuestionID:       q.ID,
		UserAnswer:       answer,
		IsCorrect:        answer == q.CorrectAnswer,
		TimeTakenSeconds: elapsedSeconds(d.StartTime, e.now()),
	}
	e.mu.Unlock()

	saved, err := e.store.InsertAttempt(ctx, attempt)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		log.Debug("attempt for discarded session %s arrived late, ignoring", attempt.SessionID)
		if err != nil {
			return SubmitResult{}, &PersistenceError{Op: "submit answer", Err: err}
		}
		return SubmitResult{IsCorrect: attempt.IsCorrect, Attempt: saved}, nil
	}
	e.submitting = false
	if err != nil {
		log.Error("failed to record attempt: session_id=%s, question_id=%s: %v", attempt.SessionID, q.ID, err)
		return SubmitResult{}, &PersistenceError{Op: "submit answer", Err: err}
	}

	d.Answers[q.ID] = answer
	if attempt.IsCorrect {
		d.CorrectAnswers++
	}
	log.Debug("answer recorded: question_id=%s, correct=%t, score=%d", q.ID, attempt.IsCorrect, d.CorrectAnswers)
	return SubmitResult{IsCorrect: attempt.IsCorrect, Attempt: saved}, nil
}

// NextQuestion advances to the next question. It returns false, leaving the
// position unchanged, when the current question is the last one.
func (e *Engine) NextQuestion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Active {
		return false
	}
	if e.data.CurrentQuestion < len(e.data.Questions)-1 {
		e.data.CurrentQuestion++
		return true
	}
	return false
}

// Finish writes the final score and elapsed time to the session record.
// It may be called again after completion; the reported time never decreases.
func (e *Engine) Finish(ctx context.Context) (Result, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	e.mu.Lock()
	if e.data == nil || e.data.SessionID == "" {
		e.mu.Unlock()
		return Result{}, ErrNoSession
	}
	if e.submitting {
		e.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	d := e.data
	finishedAt := e.now()
	completion := models.SessionCompletion{
		CorrectAnswers: d.CorrectAnswers,
		TotalTime:      elapsedSeconds(d.StartTime, finishedAt),
		CompletedAt:    finishedAt.UTC(),
	}
	total := len(d.Questions)
	e.submitting = true
	gen := e.generation
	e.mu.Unlock()

	session, err := e.store.CompleteSession(ctx, d.SessionID, completion)

	e.mu.Lock()
	if gen == e.generation {
		e.submitting = false
		if err == nil {
			e.state = Completed
		}
	}
	e.mu.Unlock()

	if err != nil {
		log.Error("failed to finish quiz session %s: %v", d.SessionID, err)
		return Result{}, &PersistenceError{Op: "finish session", Err: err}
	}

	log.Info("quiz session completed: id=%s, score=%d/%d, time=%ds", d.SessionID, completion.CorrectAnswers, total, completion.TotalTime)
	return Result{
		Session:        session,
		Score:          completion.CorrectAnswers,
		TotalQuestions: total,
		TimeSpent:      completion.TotalTime,
	}, nil
}

// Reset discards local state. Nothing is persisted.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Uninitialized
	e.data = nil
	e.submitting = false
	e.generation++
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a copy of the session data, or nil when no session is held.
func (e *Engine) Snapshot() *SessionData {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data == nil {
		return nil
	}
	cp := *e.data
	cp.Questions = append([]models.QuizQuestion(nil), e.data.Questions...)
	cp.Answers = make(map[string]string, len(e.data.Answers))
	for k, v := range e.data.Answers {
		cp.Answers[k] = v
	}
	return &cp
}

// CurrentQuestion returns the question at the current position, or nil.
func (e *Engine) CurrentQuestion() *models.QuizQuestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data == nil {
		return nil
	}
	q := e.data.Questions[e.data.CurrentQuestion]
	return &q
}

// Progress is the percentage of questions reached, counting the current one.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.data == nil {
		return 0
	}
	return float64(e.data.CurrentQuestion+1) / float64(len(e.data.Questions)) * 100
}

// Submitting reports whether an attempt is currently being recorded.
func (e *Engine) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func elapsedSeconds(start, end time.Time) int {
	secs := int(end.Sub(start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
