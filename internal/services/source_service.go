package services

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/ingest"
	"github.com/vytor/studybook/internal/jobs"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

type CreateSourceInput struct {
	Title   string
	Type    string
	URL     string
	Content string
}

// SourceService handles the sources attached to a notebook. Text sources are
// stored ready to view; websites and uploads are ingested in the background.
type SourceService interface {
	Create(ctx context.Context, p models.Principal, notebookID string, in CreateSourceInput) (*models.Source, error)
	Upload(ctx context.Context, p models.Principal, notebookID, filename string, data []byte) (*models.Source, error)
	List(ctx context.Context, p models.Principal, notebookID string, filter models.SourceFilter) ([]models.Source, error)
	Get(ctx context.Context, p models.Principal, sourceID string) (*models.Source, error)
	Delete(ctx context.Context, p models.Principal, sourceID string) error
}

type sourceService struct {
	notebooks NotebookService
	repo      repository.SourceRepository
	queue     jobs.JobQueue
}

// NewSourceService creates a new SourceService
func NewSourceService(notebooks NotebookService, repo repository.SourceRepository, queue jobs.JobQueue) SourceService {
	return &sourceService{notebooks: notebooks, repo: repo, queue: queue}
}

func (s *sourceService) Create(ctx context.Context, p models.Principal, notebookID string, in CreateSourceInput) (*models.Source, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}

	src := models.Source{
		NotebookID: notebookID,
		Title:      strings.TrimSpace(in.Title),
		Type:       in.Type,
	}

	switch in.Type {
	case models.SourceTypeText, models.SourceTypeCopiedText:
		content := ingest.NormalizeText(in.Content)
		if strings.TrimSpace(content) == "" {
			return nil, errors.NewValidationError("content", "must not be empty")
		}
		if src.Title == "" {
			src.Title = firstLine(content)
		}
		src.Content = content
		src.Summary = ingest.Summarize(content, ingest.DefaultSummaryLength)
		src.FileSize = int64(len(content))
		src.ProcessingStatus = models.ProcessingCompleted
	case models.SourceTypeWebsite:
		if err := ingest.ValidateURL(in.URL); err != nil {
			return nil, errors.NewValidationError("url", err.Error())
		}
		if src.Title == "" {
			src.Title = in.URL
		}
		src.URL = in.URL
		src.ProcessingStatus = models.ProcessingPending
	case models.SourceTypePDF:
		return nil, errors.NewBadRequestError("PDF sources must be uploaded as files")
	default:
		return nil, errors.NewValidationError("type", "must be 'text', 'copied-text' or 'website'")
	}

	saved, err := s.repo.Insert(ctx, src)
	if err != nil {
		log.Error("failed to create source: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if saved.ProcessingStatus == models.ProcessingPending {
		if err := s.enqueue(ctx, saved, nil); err != nil {
			return nil, err
		}
	}

	log.Info("source created: id=%s, type=%s, notebook_id=%s", saved.ID, saved.Type, notebookID)
	return &saved, nil
}

func (s *sourceService) Upload(ctx context.Context, p models.Principal, notebookID, filename string, data []byte) (*models.Source, error) {
	log := logger.FromContext(ctx)

	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError("file", "must not be empty")
	}
	if !ingest.IsPDF(data) {
		log.Debug("rejected upload %q with type %s", filename, ingest.DetectMIME(data))
		return nil, errors.NewValidationError("file", "must be a PDF document")
	}

	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if title == "" || title == "." {
		title = "Untitled PDF"
	}

	saved, err := s.repo.Insert(ctx, models.Source{
		NotebookID:       notebookID,
		Title:            title,
		Type:             models.SourceTypePDF,
		FileSize:         int64(len(data)),
		ProcessingStatus: models.ProcessingPending,
	})
	if err != nil {
		log.Error("failed to create uploaded source: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.enqueue(ctx, saved, data); err != nil {
		return nil, err
	}

	log.Info("pdf uploaded: id=%s, size=%d bytes, notebook_id=%s", saved.ID, len(data), notebookID)
	return &saved, nil
}

// enqueue hands src to the ingest queue. A source that cannot be queued is
// removed so no pending row is left behind.
func (s *sourceService) enqueue(ctx context.Context, src models.Source, data []byte) error {
	log := logger.FromContext(ctx)
	if err := s.queue.EnqueueIngest(src.ID, src.Type, data); err != nil {
		log.Warn("failed to queue ingestion for source %s: %v", src.ID, err)
		if derr := s.repo.Delete(ctx, src.ID); derr != nil {
			log.Error("failed to remove unqueued source %s: %v", src.ID, derr)
		}
		return errors.NewPersistenceError("queue source ingestion", err)
	}
	return nil
}

func (s *sourceService) List(ctx context.Context, p models.Principal, notebookID string, filter models.SourceFilter) ([]models.Source, error) {
	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	filter.NotebookID = notebookID
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list sources: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		list = []models.Source{}
	}
	return list, nil
}

func (s *sourceService) Get(ctx context.Context, p models.Principal, sourceID string) (*models.Source, error) {
	if !p.Authenticated() {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	src, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load source %s: %v", sourceID, err)
		return nil, errors.NewInternalError(err)
	}
	if src == nil {
		return nil, errors.NewNotFoundError("source", sourceID)
	}
	if _, err := s.notebooks.Authorize(ctx, p, src.NotebookID); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *sourceService) Delete(ctx context.Context, p models.Principal, sourceID string) error {
	if _, err := s.Get(ctx, p, sourceID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sourceID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("source", sourceID)
		}
		logger.FromContext(ctx).Error("failed to delete source %s: %v", sourceID, err)
		return errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("source deleted: id=%s", sourceID)
	return nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if r := []rune(line); len(r) > 80 {
		line = string(r[:80])
	}
	return strings.TrimSpace(line)
}
