package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/models"
)

type openCitationRequest struct {
	CitationID     int    `json:"citation_id"`
	SourceID       string `json:"source_id" validate:"required"`
	SourceTitle    string `json:"source_title"`
	SourceType     string `json:"source_type"`
	ChunkIndex     int    `json:"chunk_index"`
	Excerpt        string `json:"excerpt"`
	ChunkLinesFrom *int   `json:"chunk_lines_from"`
	ChunkLinesTo   *int   `json:"chunk_lines_to"`
}

type guideRequest struct {
	Open *bool `json:"open" validate:"required"`
}

func (s *Server) handleGetViewer(w http.ResponseWriter, r *http.Request) {
	vm, err := s.ViewerService.View(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vm)
}

func (s *Server) handleOpenCitation(w http.ResponseWriter, r *http.Request) {
	var req openCitationRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	vm, err := s.ViewerService.OpenCitation(r.Context(), principal(r), chi.URLParam(r, "notebookID"), models.Citation{
		CitationID:     req.CitationID,
		SourceID:       req.SourceID,
		SourceTitle:    req.SourceTitle,
		SourceType:     req.SourceType,
		ChunkIndex:     req.ChunkIndex,
		Excerpt:        req.Excerpt,
		ChunkLinesFrom: req.ChunkLinesFrom,
		ChunkLinesTo:   req.ChunkLinesTo,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vm)
}

func (s *Server) handleSelectSource(w http.ResponseWriter, r *http.Request) {
	vm, err := s.ViewerService.SelectSource(r.Context(), principal(r),
		chi.URLParam(r, "notebookID"), chi.URLParam(r, "sourceID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vm)
}

func (s *Server) handleViewerBack(w http.ResponseWriter, r *http.Request) {
	vm, err := s.ViewerService.BackToSources(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vm)
}

func (s *Server) handleViewerGuide(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	vm, err := s.ViewerService.SetGuideOpen(r.Context(), principal(r), chi.URLParam(r, "notebookID"), *req.Open)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vm)
}

func (s *Server) handleCloseViewer(w http.ResponseWriter, r *http.Request) {
	if err := s.ViewerService.Close(r.Context(), principal(r), chi.URLParam(r, "notebookID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
