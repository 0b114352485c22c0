package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

// NoteService manages the notes a user keeps inside a notebook. Title and
// content are trimmed and must both be non-empty.
type NoteService interface {
	Create(ctx context.Context, p models.Principal, notebookID string, in NoteInput) (*models.Note, error)
	List(ctx context.Context, p models.Principal, notebookID string) ([]models.Note, error)
	Get(ctx context.Context, p models.Principal, noteID string) (*models.Note, error)
	Update(ctx context.Context, p models.Principal, noteID string, in NoteInput) (*models.Note, error)
	Delete(ctx context.Context, p models.Principal, noteID string) error
}

type NoteInput struct {
	Title      string
	Content    string
	SourceType string
}

func (in NoteInput) normalize() (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" {
		return in, errors.NewValidationError("title", "must not be empty")
	}
	if len(in.Title) > maxTitleLength {
		return in, errors.NewValidationError("title", "must be at most 200 characters")
	}
	if in.Content == "" {
		return in, errors.NewValidationError("content", "must not be empty")
	}
	return in, nil
}

type noteService struct {
	notebooks NotebookService
	repo      repository.NoteRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(notebooks NotebookService, repo repository.NoteRepository) NoteService {
	return &noteService{notebooks: notebooks, repo: repo}
}

func (s *noteService) Create(ctx context.Context, p models.Principal, notebookID string, in NoteInput) (*models.Note, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	switch in.SourceType {
	case "":
		in.SourceType = models.NoteSourceUser
	case models.NoteSourceUser, models.NoteSourceAIResponse:
	default:
		return nil, errors.NewValidationError("source_type", "must be user or ai_response")
	}

	note, err := s.repo.Insert(ctx, models.Note{
		NotebookID: notebookID,
		UserID:     p.UserID,
		Title:      in.Title,
		Content:    in.Content,
		SourceType: in.SourceType,
	})
	if err != nil {
		log.Error("failed to create note: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("note created: id=%s, notebook_id=%s", note.ID, notebookID)
	return &note, nil
}

func (s *noteService) List(ctx context.Context, p models.Principal, notebookID string) ([]models.Note, error) {
	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListByNotebook(ctx, notebookID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list notes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// Get loads a note and checks that p owns the notebook it belongs to.
func (s *noteService) Get(ctx context.Context, p models.Principal, noteID string) (*models.Note, error) {
	if !p.Authenticated() {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	note, err := s.repo.Get(ctx, noteID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load note %s: %v", noteID, err)
		return nil, errors.NewInternalError(err)
	}
	if note == nil {
		return nil, errors.NewNotFoundError("note", noteID)
	}
	if _, err := s.notebooks.Authorize(ctx, p, note.NotebookID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, p models.Principal, noteID string, in NoteInput) (*models.Note, error) {
	note, err := s.Get(ctx, p, noteID)
	if err != nil {
		return nil, err
	}
	if !note.Editable() {
		return nil, errors.NewConflictError("saved responses are read-only", nil)
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, noteID, in.Title, in.Content)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("note", noteID)
		}
		logger.FromContext(ctx).Error("failed to update note %s: %v", noteID, err)
		return nil, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Debug("note updated: id=%s", noteID)
	return updated, nil
}

func (s *noteService) Delete(ctx context.Context, p models.Principal, noteID string) error {
	if _, err := s.Get(ctx, p, noteID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, noteID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("note", noteID)
		}
		logger.FromContext(ctx).Error("failed to delete note %s: %v", noteID, err)
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("note deleted: id=%s", noteID)
	return nil
}
