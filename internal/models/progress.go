package models

type NotebookProgress struct {
	NotebookID         string  `json:"notebook_id"`
	TotalSources       int     `json:"total_sources"`
	ReadySources       int     `json:"ready_sources"`
	TotalNotes         int     `json:"total_notes"`
	QuizzesTaken       int     `json:"quizzes_taken"`
	QuizzesCompleted   int     `json:"quizzes_completed"`
	TotalQuizQuestions int     `json:"total_quiz_questions"` // answered attempts
	CorrectAnswers     int     `json:"correct_answers"`
	QuizSuccessRate    float64 `json:"quiz_success_rate"` // percentage
	StudyTimeSeconds   int     `json:"study_time_seconds"`
}

// QuizStats aggregates a user's quiz activity in one notebook.
type QuizStats struct {
	SessionsStarted   int
	SessionsCompleted int
	Attempts          int
	CorrectAttempts   int
	TotalTimeSeconds  int
}
