package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	LogFormat           string
	JWTSecret           string
	CORSAllowedOrigins  []string
	IngestWorkerCount   int
	IngestQueueSize     int
	QuizSessionTTL      time.Duration
	CitationSettleDelay time.Duration
	MaxUploadMB         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:studybook.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		LogFormat:           envOr("LOG_FORMAT", "text"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins:  envListOr("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		IngestWorkerCount:   envIntOr("INGEST_WORKER_COUNT", 2),
		IngestQueueSize:     envIntOr("INGEST_QUEUE_SIZE", 32),
		QuizSessionTTL:      envDurationOr("QUIZ_SESSION_TTL", 2*time.Hour),
		CitationSettleDelay: time.Duration(envIntOr("CITATION_SETTLE_DELAY_MS", 300)) * time.Millisecond,
		MaxUploadMB:         envIntOr("MAX_UPLOAD_MB", 20),
	}
}

// Validate returns the first configuration problem found, if any.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.IngestWorkerCount < 1 || c.IngestWorkerCount > 32 {
		return fmt.Errorf("INGEST_WORKER_COUNT must be between 1 and 32, got %d", c.IngestWorkerCount)
	}
	if c.IngestQueueSize < 1 {
		return fmt.Errorf("INGEST_QUEUE_SIZE must be positive, got %d", c.IngestQueueSize)
	}
	if c.QuizSessionTTL < time.Minute {
		return fmt.Errorf("QUIZ_SESSION_TTL must be at least 1m, got %s", c.QuizSessionTTL)
	}
	if c.CitationSettleDelay < 0 {
		return fmt.Errorf("CITATION_SETTLE_DELAY_MS cannot be negative")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
