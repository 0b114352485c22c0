package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/services"
)

type noteRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
	SourceType string `json:"source_type" validate:"omitempty,oneof=user ai_response"`
}

type updateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.NoteService.List(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	note, err := s.NoteService.Create(r.Context(), principal(r), chi.URLParam(r, "notebookID"), services.NoteInput{
		Title:      req.Title,
		Content:    req.Content,
		SourceType: req.SourceType,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, note)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.NoteService.Get(r.Context(), principal(r), chi.URLParam(r, "noteID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	note, err := s.NoteService.Update(r.Context(), principal(r), chi.URLParam(r, "noteID"), services.NoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.NoteService.Delete(r.Context(), principal(r), chi.URLParam(r, "noteID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
