package models

import "time"

type SessionType string

const (
	SessionPractice SessionType = "practice"
	SessionTimed    SessionType = "timed"
	SessionExam     SessionType = "exam"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionPractice, SessionTimed, SessionExam:
		return true
	}
	return false
}

const QuestionTypeMultipleChoice = "multiple_choice"

type QuizQuestion struct {
	ID              string    `json:"id"`
	NotebookID      string    `json:"notebook_id"`
	Question        string    `json:"question"`
	QuestionType    string    `json:"question_type"`
	Options         []string  `json:"options"`
	CorrectAnswer   string    `json:"correct_answer"`
	Explanation     string    `json:"explanation,omitempty"`
	Difficulty      *string   `json:"difficulty"` // "easy", "medium", "hard" or null
	SourceReference string    `json:"source_reference,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type QuestionFilter struct {
	NotebookID string
	Difficulty string
}

type QuizSession struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	NotebookID     string      `json:"notebook_id"`
	SessionType    SessionType `json:"session_type"`
	QuestionsCount int         `json:"questions_count"`
	CorrectAnswers int         `json:"correct_answers"`
	TotalTime      int         `json:"total_time"` // seconds
	CompletedAt    *time.Time  `json:"completed_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

type QuizAttempt struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	UserID           string    `json:"user_id"`
	NotebookID       string    `json:"notebook_id"`
	QuestionID       string    `json:"question_id"`
	UserAnswer       string    `json:"user_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

// SessionCompletion is the patch applied when a session finishes.
type SessionCompletion struct {
	CorrectAnswers int
	TotalTime      int
	CompletedAt    time.Time
}
