package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		JWTSecret:           "0123456789abcdef",
		IngestWorkerCount:   2,
		IngestQueueSize:     32,
		QuizSessionTTL:      time.Hour,
		CitationSettleDelay: 300 * time.Millisecond,
		MaxUploadMB:         20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }, "ADDR cannot be empty"},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }, "DB_PATH cannot be empty"},
		{"short secret", func(c *config.Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"no workers", func(c *config.Config) { c.IngestWorkerCount = 0 }, "INGEST_WORKER_COUNT"},
		{"too many workers", func(c *config.Config) { c.IngestWorkerCount = 64 }, "INGEST_WORKER_COUNT"},
		{"queue size", func(c *config.Config) { c.IngestQueueSize = 0 }, "INGEST_QUEUE_SIZE"},
		{"ttl", func(c *config.Config) { c.QuizSessionTTL = time.Second }, "QUIZ_SESSION_TTL"},
		{"settle delay", func(c *config.Config) { c.CitationSettleDelay = -time.Millisecond }, "CITATION_SETTLE_DELAY_MS"},
		{"upload size", func(c *config.Config) { c.MaxUploadMB = 0 }, "MAX_UPLOAD_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("INGEST_WORKER_COUNT", "")
	t.Setenv("QUIZ_SESSION_TTL", "")
	t.Setenv("CITATION_SETTLE_DELAY_MS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:studybook.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.IngestWorkerCount)
	assert.Equal(t, 2*time.Hour, cfg.QuizSessionTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.CitationSettleDelay)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("INGEST_WORKER_COUNT", "4")
	t.Setenv("QUIZ_SESSION_TTL", "30m")
	t.Setenv("CITATION_SETTLE_DELAY_MS", "150")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 4, cfg.IngestWorkerCount)
	assert.Equal(t, 30*time.Minute, cfg.QuizSessionTTL)
	assert.Equal(t, 150*time.Millisecond, cfg.CitationSettleDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("INGEST_QUEUE_SIZE", "lots")
	t.Setenv("QUIZ_SESSION_TTL", "forever")

	cfg := config.Load()

	assert.Equal(t, 32, cfg.IngestQueueSize)
	assert.Equal(t, 2*time.Hour, cfg.QuizSessionTTL)
}
