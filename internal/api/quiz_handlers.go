package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/services"
)

type startQuizRequest struct {
	SessionType string `json:"session_type" validate:"omitempty,oneof=practice timed exam"`
	Count       int    `json:"count" validate:"gte=0,lte=100"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=all easy medium hard"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.QuizService.Start(r.Context(), principal(r), chi.URLParam(r, "notebookID"), services.StartSessionInput{
		SessionType: models.SessionType(req.SessionType),
		Count:       req.Count,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("quiz session started: id=%s, questions=%d", view.SessionID, view.TotalQuestions)
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Get(r.Context(), principal(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	fb, err := s.QuizService.SubmitAnswer(r.Context(), principal(r), chi.URLParam(r, "sessionID"), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fb)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	res, err := s.QuizService.Next(r.Context(), principal(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleFinishQuiz(w http.ResponseWriter, r *http.Request) {
	res, err := s.QuizService.Finish(r.Context(), principal(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleAbandonQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.QuizService.Abandon(r.Context(), principal(r), chi.URLParam(r, "sessionID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
