package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newBufferedLogrus(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

func TestLogrusLogger_LogMode(t *testing.T) {
	logger := NewLogrusLogger(newBufferedLogrus(&bytes.Buffer{}), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*LogrusLogger).LogLevel)
	assert.Equal(t, Error, logger.(*LogrusLogger).LogLevel)
}

func TestLogrusLogger_Trace(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogrusLogger(newBufferedLogrus(&buf), Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	t.Run("Normal trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 3
		}, nil)
		assert.Contains(t, buf.String(), `"rows":3`)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})

	t.Run("Slow query", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
			return "SELECT 1", 3
		}, nil)
		assert.Contains(t, buf.String(), "SLOW SQL executed")
	})

	t.Run("Error trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, assert.AnError)
		assert.Contains(t, buf.String(), `"level":"error"`)
	})
}

func TestLogrusLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogrusLogger(newBufferedLogrus(&buf), Config{LogLevel: Warn})

	logger.Info(ctx, "hidden")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")
}
