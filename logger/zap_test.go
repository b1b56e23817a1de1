package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferedZap(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}

func TestZapLogger_LogMode(t *testing.T) {
	logger := NewZapLogger(zap.NewNop(), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*ZapLogger).LogLevel)
	assert.Equal(t, Error, logger.(*ZapLogger).LogLevel)
}

func TestZapLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewZapLogger(newBufferedZap(&buf), Config{LogLevel: Warn})

	logger.Info(ctx, "hidden")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "issue reported", "fields.E160")
	assert.Contains(t, buf.String(), "issue reported")
	assert.Contains(t, buf.String(), "fields.E160")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestZapLogger_Trace(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewZapLogger(newBufferedZap(&buf), Config{
		LogLevel:      Info,
		SlowThreshold: 100 * time.Millisecond,
	})

	t.Run("Normal trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT `ts_field_1` FROM `tsrecord` WHERE `id` = 5", 1
		}, nil)

		output := buf.String()
		assert.Contains(t, output, "SQL executed")
		assert.Contains(t, output, `"rows":1`)
		assert.Contains(t, output, "duration")
	})

	t.Run("Slow query", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now().Add(-150*time.Millisecond), func() (string, int64) {
			return "SELECT * FROM large_table", -1
		}, nil)

		output := buf.String()
		assert.Contains(t, output, "SLOW SQL executed")
		assert.Contains(t, output, "slow_threshold")
		assert.NotContains(t, output, `"rows"`)
	})

	t.Run("Error trace", func(t *testing.T) {
		buf.Reset()
		logger.Trace(ctx, time.Now(), func() (string, int64) {
			return "INSERT INTO t VALUES (NULL)", 0
		}, assert.AnError)
		assert.Contains(t, buf.String(), `"level":"error"`)
	})

	t.Run("Record not found error with ignore", func(t *testing.T) {
		buf.Reset()
		l := logger.LogMode(Error)
		l.(*ZapLogger).IgnoreRecordNotFoundError = true
		l.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM empty_table", 0
		}, ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})
}

func TestNewZapProduction(t *testing.T) {
	l, err := NewZapProduction(Config{LogLevel: Warn})
	require.NoError(t, err)
	assert.Equal(t, Warn, l.(*ZapLogger).LogLevel)
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DPanicLevel, ZapLevel(Silent))
	assert.Equal(t, zapcore.ErrorLevel, ZapLevel(Error))
	assert.Equal(t, zapcore.WarnLevel, ZapLevel(Warn))
	assert.Equal(t, zapcore.InfoLevel, ZapLevel(Info))
}
