package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/studybook/internal/auth"
	"github.com/vytor/studybook/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	NotebookService services.NotebookService
	QuestionService services.QuestionService
	QuizService     services.QuizService
	SourceService   services.SourceService
	NoteService     services.NoteService
	ViewerService   services.ViewerService
	ProgressService services.ProgressService

	DB             Pinger
	Verifier       *auth.Verifier
	AllowedOrigins []string
	MaxUploadBytes int64

	validate *validator.Validate
}
