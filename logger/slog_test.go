package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{AddSource: true})
	logger := NewSlogLogger(slog.New(handler), Config{LogLevel: Info})

	logger.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "select count(*) from tsrecord", 0
	}, nil)

	assert.NotContains(t, buf.String(), "logger/slog.go")
	assert.Contains(t, buf.String(), "logger/slog_test.go")
	assert.Contains(t, buf.String(), "trace.sql=")
}

func TestSlogLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil)), Config{LogLevel: Warn, SlowThreshold: time.Millisecond})

	logger.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "select 1", 1
	}, nil)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), "slow_threshold")
}
