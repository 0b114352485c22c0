package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/logger"
)

type createNotebookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (s *Server) handleListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks, err := s.NotebookService.List(r.Context(), principal(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, notebooks)
}

func (s *Server) handleCreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req createNotebookRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	nb, err := s.NotebookService.Create(r.Context(), principal(r), req.Title, req.Description)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("notebook %s created via API", nb.ID)
	writeJSON(w, r, http.StatusCreated, nb)
}

func (s *Server) handleGetNotebook(w http.ResponseWriter, r *http.Request) {
	nb, err := s.NotebookService.Get(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nb)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.ProgressService.Get(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}
