package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	s.validate = newValidator()

	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/notebooks", s.handleListNotebooks)
		r.Post("/notebooks", s.handleCreateNotebook)

		r.Route("/notebooks/{notebookID}", func(r chi.Router) {
			r.Get("/", s.handleGetNotebook)

			r.Get("/questions", s.handleListQuestions)
			r.Post("/questions", s.handleCreateQuestion)
			r.Get("/questions/random", s.handleRandomQuestions)
			r.Post("/questions/sample", s.handleSeedQuestions)

			r.Post("/quiz/sessions", s.handleStartQuiz)

			r.Get("/sources", s.handleListSources)
			r.Post("/sources", s.handleCreateSource)
			r.Post("/sources/upload", s.handleUploadSource)

			r.Get("/notes", s.handleListNotes)
			r.Post("/notes", s.handleCreateNote)

			r.Get("/viewer", s.handleGetViewer)
			r.Delete("/viewer", s.handleCloseViewer)
			r.Post("/viewer/citation", s.handleOpenCitation)
			r.Post("/viewer/sources/{sourceID}", s.handleSelectSource)
			r.Post("/viewer/back", s.handleViewerBack)
			r.Put("/viewer/guide", s.handleViewerGuide)

			r.Get("/progress", s.handleProgress)
		})

		r.Route("/quiz/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetQuiz)
			r.Delete("/", s.handleAbandonQuiz)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Post("/next", s.handleNextQuestion)
			r.Post("/finish", s.handleFinishQuiz)
		})

		r.Get("/sources/{sourceID}", s.handleGetSource)
		r.Delete("/sources/{sourceID}", s.handleDeleteSource)

		r.Get("/notes/{noteID}", s.handleGetNote)
		r.Put("/notes/{noteID}", s.handleUpdateNote)
		r.Delete("/notes/{noteID}", s.handleDeleteNote)
	})

	return r
}
