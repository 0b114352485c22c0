package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/errors"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/services"
)

type createSourceRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Type    string `json:"type" validate:"required"`
	URL     string `json:"url" validate:"omitempty,max=2048"`
	Content string `json:"content"`
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sources, err := s.SourceService.List(r.Context(), principal(r), chi.URLParam(r, "notebookID"), models.SourceFilter{
		Type:   q.Get("type"),
		Status: q.Get("status"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sources)
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	src, err := s.SourceService.Create(r.Context(), principal(r), chi.URLParam(r, "notebookID"), services.CreateSourceInput{
		Title:   req.Title,
		Type:    req.Type,
		URL:     req.URL,
		Content: req.Content,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, statusForSource(src), src)
}

func (s *Server) handleUploadSource(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			handleError(w, r, errors.NewValidationError("file", fmt.Sprintf("must be at most %d bytes", s.MaxUploadBytes)))
			return
		}
		log.Debug("upload without a file part: %v", err)
		handleError(w, r, errors.NewBadRequestError("multipart form with a 'file' part is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("failed to read uploaded file"))
		return
	}

	src, err := s.SourceService.Upload(r.Context(), principal(r), chi.URLParam(r, "notebookID"), header.Filename, data)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, src)
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	src, err := s.SourceService.Get(r.Context(), principal(r), chi.URLParam(r, "sourceID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, src)
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	if err := s.SourceService.Delete(r.Context(), principal(r), chi.URLParam(r, "sourceID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusForSource is 202 while the source still waits for ingestion.
func statusForSource(src *models.Source) int {
	if src.Ready() {
		return http.StatusCreated
	}
	return http.StatusAccepted
}
