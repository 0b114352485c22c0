package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/studybook/internal/citation"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

// ViewerService keeps one source viewer per user and notebook and renders
// it against the notebook's current sources.
type ViewerService interface {
	View(ctx context.Context, p models.Principal, notebookID string) (*citation.ViewModel, error)
	OpenCitation(ctx context.Context, p models.Principal, notebookID string, c models.Citation) (*citation.ViewModel, error)
	SelectSource(ctx context.Context, p models.Principal, notebookID, sourceID string) (*citation.ViewModel, error)
	BackToSources(ctx context.Context, p models.Principal, notebookID string) (*citation.ViewModel, error)
	SetGuideOpen(ctx context.Context, p models.Principal, notebookID string, open bool) (*citation.ViewModel, error)
	Close(ctx context.Context, p models.Principal, notebookID string) error
	Reap(now time.Time) int
}

// viewerIdleTTL is how long a viewer may go untouched before Reap drops it.
const viewerIdleTTL = 30 * time.Minute

type viewerKey struct {
	userID     string
	notebookID string
}

type viewerEntry struct {
	viewer   *citation.Viewer
	lastUsed time.Time
}

type viewerService struct {
	notebooks   NotebookService
	sources     repository.SourceRepository
	settleDelay time.Duration
	now         func() time.Time

	mu      sync.Mutex
	viewers map[viewerKey]*viewerEntry
}

// NewViewerService creates a new ViewerService
func NewViewerService(notebooks NotebookService, sources repository.SourceRepository, settleDelay time.Duration) ViewerService {
	return &viewerService{
		notebooks:   notebooks,
		sources:     sources,
		settleDelay: settleDelay,
		now:         time.Now,
		viewers:     make(map[viewerKey]*viewerEntry),
	}
}

func (s *viewerService) viewer(ctx context.Context, p models.Principal, notebookID string) (*citation.Viewer, error) {
	if _, err := s.notebooks.Authorize(ctx, p, notebookID); err != nil {
		return nil, err
	}
	key := viewerKey{userID: p.UserID, notebookID: notebookID}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.viewers[key]
	if !ok {
		log := logger.FromContext(ctx).WithPrefix("viewer")
		e = &viewerEntry{viewer: citation.NewViewer(
			citation.WithSettleDelay(s.settleDelay),
			citation.WithContent(s.contentOf(notebookID)),
			citation.WithScrollHandler(func(d citation.ScrollDirective) {
				log.Debug("scroll issued: source_id=%s, anchor_line=%d", d.SourceID, d.AnchorLine)
			}),
		)}
		s.viewers[key] = e
	}
	e.lastUsed = s.now()
	return e.viewer, nil
}

// contentOf looks up ready sources of one notebook for the viewer's scroll
// check. It runs on the timer goroutine, detached from any request.
func (s *viewerService) contentOf(notebookID string) citation.ContentFunc {
	return func(sourceID string) (string, bool) {
		src, err := s.sources.Get(context.Background(), sourceID)
		if err != nil {
			logger.Default().WithPrefix("viewer").Warn("failed to load source %s for scroll: %v", sourceID, err)
			return "", false
		}
		if src == nil || src.NotebookID != notebookID || !src.Ready() {
			return "", false
		}
		return src.Content, true
	}
}

func (s *viewerService) render(ctx context.Context, v *citation.Viewer, notebookID string) (*citation.ViewModel, error) {
	sources, err := s.sources.List(ctx, models.SourceFilter{NotebookID: notebookID})
	if err != nil {
		logger.FromContext(ctx).Error("failed to load sources for viewer: %v", err)
		return nil, errors.NewInternalError(err)
	}
	vm := v.View(sources)
	return &vm, nil
}

func (s *viewerService) View(ctx context.Context, p models.Principal, notebookID string) (*citation.ViewModel, error) {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, v, notebookID)
}

func (s *viewerService) OpenCitation(ctx context.Context, p models.Principal, notebookID string, c models.Citation) (*citation.ViewModel, error) {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return nil, err
	}
	if c.SourceID == "" {
		return nil, errors.NewValidationError("source_id", "must not be empty")
	}
	if v.OpenCitation(c) {
		logger.FromContext(ctx).Debug("citation opened: citation_id=%d, source_id=%s", c.CitationID, c.SourceID)
	}
	return s.render(ctx, v, notebookID)
}

func (s *viewerService) SelectSource(ctx context.Context, p models.Principal, notebookID, sourceID string) (*citation.ViewModel, error) {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return nil, err
	}
	src, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load source %s: %v", sourceID, err)
		return nil, errors.NewInternalError(err)
	}
	if src == nil || src.NotebookID != notebookID {
		return nil, errors.NewNotFoundError("source", sourceID)
	}
	v.SelectSource(*src)
	return s.render(ctx, v, notebookID)
}

func (s *viewerService) BackToSources(ctx context.Context, p models.Principal, notebookID string) (*citation.ViewModel, error) {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return nil, err
	}
	v.BackToSources()
	return s.render(ctx, v, notebookID)
}

func (s *viewerService) SetGuideOpen(ctx context.Context, p models.Principal, notebookID string, open bool) (*citation.ViewModel, error) {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return nil, err
	}
	v.SetGuideOpen(open)
	return s.render(ctx, v, notebookID)
}

// Close clears the viewer and forgets it.
func (s *viewerService) Close(ctx context.Context, p models.Principal, notebookID string) error {
	v, err := s.viewer(ctx, p, notebookID)
	if err != nil {
		return err
	}
	v.Close()

	s.mu.Lock()
	delete(s.viewers, viewerKey{userID: p.UserID, notebookID: notebookID})
	s.mu.Unlock()
	return nil
}

// Reap drops viewers idle for longer than viewerIdleTTL and returns how many
// were dropped.
func (s *viewerService) Reap(now time.Time) int {
	var idle []*citation.Viewer
	s.mu.Lock()
	for key, e := range s.viewers {
		if now.Sub(e.lastUsed) > viewerIdleTTL {
			idle = append(idle, e.viewer)
			delete(s.viewers, key)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.Close()
	}
	if len(idle) > 0 {
		logger.Default().WithPrefix("viewer").Info("reaped %d idle viewers", len(idle))
	}
	return len(idle)
}
