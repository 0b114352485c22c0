package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vytor/studybook/internal/api"
	"github.com/vytor/studybook/internal/auth"
	"github.com/vytor/studybook/internal/config"
	"github.com/vytor/studybook/internal/db"
	"github.com/vytor/studybook/internal/ingest"
	"github.com/vytor/studybook/internal/jobs"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/repository/sqlite"
	"github.com/vytor/studybook/internal/services"
	"github.com/vytor/studybook/internal/worker"
)

const fetchTimeout = 20 * time.Second

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(cfg.LogFormat != "json"),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Studybook Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("ingest_worker_count=%d", cfg.IngestWorkerCount)
	log.Debug("ingest_queue_size=%d", cfg.IngestQueueSize)
	log.Debug("quiz_session_ttl=%s", cfg.QuizSessionTTL)
	log.Debug("citation_settle_delay=%s", cfg.CitationSettleDelay)
	log.Debug("cors_allowed_origins=%v", cfg.CORSAllowedOrigins)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	notebookRepo := sqlite.NewNotebookRepository(database.DB)
	sourceRepo := sqlite.NewSourceRepository(database.DB)
	noteRepo := sqlite.NewNoteRepository(database.DB)
	questionRepo := sqlite.NewQuestionRepository(database.DB)
	quizRepo := sqlite.NewQuizRepository(database.DB)

	ingestPool := worker.NewPool(cfg.IngestWorkerCount, cfg.IngestQueueSize)
	queue := jobs.NewWorkerQueue(ingestPool, sourceRepo, ingest.NewClient(fetchTimeout))

	notebookService := services.NewNotebookService(notebookRepo)
	questionService := services.NewQuestionService(notebookService, questionRepo)
	quizService := services.NewQuizService(notebookService, questionService, quizRepo, cfg.QuizSessionTTL)
	viewerService := services.NewViewerService(notebookService, sourceRepo, cfg.CitationSettleDelay)

	srv := &api.Server{
		NotebookService: notebookService,
		QuestionService: questionService,
		QuizService:     quizService,
		SourceService:   services.NewSourceService(notebookService, sourceRepo, queue),
		NoteService:     services.NewNoteService(notebookService, noteRepo),
		ViewerService:   viewerService,
		ProgressService: services.NewProgressService(notebookService, sourceRepo, noteRepo, quizRepo),
		DB:              database,
		Verifier:        auth.NewVerifier(cfg.JWTSecret),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		MaxUploadBytes:  int64(cfg.MaxUploadMB) << 20,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ingestPool.Start(ctx)

	// Idle quiz sessions and source viewers are dropped once a minute.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1m", func() {
		now := time.Now()
		quizService.Reap(now)
		viewerService.Reap(now)
	}); err != nil {
		log.Error("failed to schedule session reaper: %v", err)
		os.Exit(1)
	}
	scheduler.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session reaper")
	<-scheduler.Stop().Done()

	log.Debug("stopping ingest pool")
	cancel()
	ingestPool.Stop()

	log.Info("===========================================")
	log.Info("Studybook Server Stopped")
	log.Info("===========================================")
}
