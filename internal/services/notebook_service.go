package services

import (
	"context"
	"strings"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

const maxTitleLength = 200

// NotebookService handles notebook-related business logic. Every other
// notebook-scoped service goes through Authorize before touching data.
type NotebookService interface {
	Create(ctx context.Context, p models.Principal, title, description string) (*models.Notebook, error)
	List(ctx context.Context, p models.Principal) ([]models.Notebook, error)
	Get(ctx context.Context, p models.Principal, id string) (*models.Notebook, error)
	Authorize(ctx context.Context, p models.Principal, notebookID string) (*models.Notebook, error)
}

type notebookService struct {
	repo repository.NotebookRepository
}

// NewNotebookService creates a new NotebookService
func NewNotebookService(repo repository.NotebookRepository) NotebookService {
	return &notebookService{repo: repo}
}

func (s *notebookService) Create(ctx context.Context, p models.Principal, title, description string) (*models.Notebook, error) {
	log := logger.FromContext(ctx)

	if !p.Authenticated() {
		return nil, errors.NewUnauthorizedError("sign in to create notebooks")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}
	if len(title) > maxTitleLength {
		return nil, errors.NewValidationError("title", "must be at most 200 characters")
	}

	nb, err := s.repo.Insert(ctx, models.Notebook{
		UserID:      p.UserID,
		Title:       title,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		log.Error("failed to create notebook: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("notebook created: id=%s, user_id=%s", nb.ID, p.UserID)
	return &nb, nil
}

func (s *notebookService) List(ctx context.Context, p models.Principal) ([]models.Notebook, error) {
	if !p.Authenticated() {
		return nil, errors.NewUnauthorizedError("sign in to list notebooks")
	}
	list, err := s.repo.ListByUser(ctx, p.UserID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list notebooks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		list = []models.Notebook{}
	}
	return list, nil
}

func (s *notebookService) Get(ctx context.Context, p models.Principal, id string) (*models.Notebook, error) {
	return s.Authorize(ctx, p, id)
}

func (s *notebookService) Authorize(ctx context.Context, p models.Principal, notebookID string) (*models.Notebook, error) {
	if !p.Authenticated() {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	nb, err := s.repo.Get(ctx, notebookID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load notebook %s: %v", notebookID, err)
		return nil, errors.NewInternalError(err)
	}
	if nb == nil {
		return nil, errors.NewNotFoundError("notebook", notebookID)
	}
	if nb.UserID != p.UserID {
		logger.FromContext(ctx).Warn("user %s denied access to notebook %s", p.UserID, notebookID)
		return nil, errors.NewForbiddenError("notebook", notebookID)
	}
	return nb, nil
}
