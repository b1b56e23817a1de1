package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger_Trace(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf), Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	t.Run("Normal trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)
		assert.Contains(t, buf.String(), `"level":"info"`)
		assert.Contains(t, buf.String(), `"rows":1`)
	})

	t.Run("Slow query", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
			return "SELECT 1", 1
		}, nil)
		assert.Contains(t, buf.String(), `"slow_threshold":"100ms"`)
	})

	t.Run("Error trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, assert.AnError)
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), assert.AnError.Error())
	})
}

func TestZerologLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf), Config{LogLevel: Error})

	logger.Warn(ctx, "hidden")
	assert.Empty(t, buf.String())

	logger.Error(ctx, "shown", 42)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "42")
}

func TestNewZerologConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologConsole(&buf, Config{LogLevel: Info})
	logger.Info(context.Background(), "migrated")
	assert.Contains(t, buf.String(), "migrated")
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
}
