package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/services"
)

type createQuestionRequest struct {
	Question        string   `json:"question" validate:"required,max=2000"`
	QuestionType    string   `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false short_answer"`
	Options         []string `json:"options" validate:"max=10,dive,required"`
	CorrectAnswer   string   `json:"correct_answer" validate:"required"`
	Explanation     string   `json:"explanation"`
	Difficulty      *string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	SourceReference string   `json:"source_reference"`
}

type questionListResponse struct {
	Questions []models.QuizQuestion    `json:"questions"`
	Stats     services.DifficultyStats `json:"stats"`
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, stats, err := s.QuestionService.List(r.Context(), principal(r),
		chi.URLParam(r, "notebookID"), r.URL.Query().Get("difficulty"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, questionListResponse{Questions: questions, Stats: stats})
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	q, err := s.QuestionService.Create(r.Context(), principal(r), chi.URLParam(r, "notebookID"), models.QuizQuestion{
		Question:        req.Question,
		QuestionType:    req.QuestionType,
		Options:         req.Options,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		Difficulty:      req.Difficulty,
		SourceReference: req.SourceReference,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, q)
}

func (s *Server) handleRandomQuestions(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count")
	if err != nil {
		handleError(w, r, err)
		return
	}
	questions, err := s.QuestionService.Random(r.Context(), principal(r),
		chi.URLParam(r, "notebookID"), count, r.URL.Query().Get("difficulty"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, questions)
}

func (s *Server) handleSeedQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.QuestionService.SeedSamples(r.Context(), principal(r), chi.URLParam(r, "notebookID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, questions)
}
