package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studybook/internal/logger"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestTextFormat_SortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithColors(false),
		logger.WithClock(fixedClock),
	).WithFields(map[string]any{"session_id": "s1", "answer": "Paris"})

	log.WithPrefix("quiz").Info("answer %s", "submitted")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2026-03-01 12:00:00.000 INFO  [quiz] "))
	assert.True(t, strings.HasSuffix(line, "answer submitted answer=Paris session_id=s1\n"), line)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, log.Enabled(logger.INFO))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithClock(fixedClock),
	)

	log.WithPrefix("db").WithError(errors.New("locked")).Error("insert failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "insert failed", entry["msg"])
	assert.Equal(t, "db", entry["component"])
	assert.Equal(t, "locked", entry["error"])
}

func TestWithField_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("child", true)

	parent.Info("parent")
	assert.NotContains(t, buf.String(), "child=")
}

func TestWithError_Nil(t *testing.T) {
	log := logger.New()
	assert.Same(t, log, log.WithError(nil))
}

func TestContextRoundTrip(t *testing.T) {
	log := logger.New().WithField("request_id", "abc")
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("warning"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat("JSON"))
	assert.Equal(t, logger.FormatText, logger.ParseFormat(""))
}
