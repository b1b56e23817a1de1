package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/forcedfields/forcedfields/utils"
)

type slogLogger struct {
	Logger *slog.Logger
	Config
}

// NewSlogLogger routes log lines and traced statements to a slog.Logger.
func NewSlogLogger(logger *slog.Logger, config Config) Interface {
	return &slogLogger{Logger: logger, Config: config}
}

func (l *slogLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.log(ctx, slog.LevelInfo, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.log(ctx, slog.LevelWarn, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.log(ctx, slog.LevelError, msg, slog.Any("data", data))
	}
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	outcome := classify(l.LogLevel, l.SlowThreshold, l.IgnoreRecordNotFoundError, elapsed, err)
	if outcome == traceSkip {
		return
	}

	sql, rows := fc()
	fields := []slog.Attr{
		slog.String("duration", fmt.Sprintf("%.3fms", durationMs(elapsed))),
		slog.String("sql", sql),
	}
	if rows != -1 {
		fields = append(fields, slog.Int64("rows", rows))
	}

	level := slog.LevelInfo
	switch outcome {
	case traceFailed:
		level = slog.LevelError
		fields = append(fields, slog.String("error", err.Error()))
	case traceSlow:
		level = slog.LevelWarn
		fields = append(fields, slog.String("slow_threshold", l.SlowThreshold.String()))
	}
	l.log(ctx, level, "SQL executed", slog.Attr{Key: "trace", Value: slog.GroupValue(fields...)})
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Logger.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, utils.CallerFrame().PC)
	r.Add(args...)
	_ = l.Logger.Handler().Handle(ctx, r)
}

// ParamsFilter filter params
func (l *slogLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}
