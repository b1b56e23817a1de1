package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forcedfields/forcedfields/utils"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Logger *logrus.Logger
	Config
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{Logger: logger, Config: config}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) entry(ctx context.Context, data []interface{}) *logrus.Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.Logger.WithContext(ctx).WithFields(logrus.Fields{
		"file": utils.FileWithLineNum(),
		"data": data,
	})
}

// Info logs info messages
func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Info {
		l.entry(ctx, data).Info(msg)
	}
}

// Warn logs warning messages
func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Warn {
		l.entry(ctx, data).Warn(msg)
	}
}

// Error logs error messages
func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= Error {
		l.entry(ctx, data).Error(msg)
	}
}

// Trace logs SQL execution details
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	outcome := classify(l.LogLevel, l.SlowThreshold, l.IgnoreRecordNotFoundError, elapsed, err)
	if outcome == traceSkip {
		return
	}

	sql, rows := fc()
	fields := logrus.Fields{
		"file":     utils.FileWithLineNum(),
		"duration": fmt.Sprintf("%.3fms", durationMs(elapsed)),
		"sql":      sql,
	}
	if rows != -1 {
		fields["rows"] = rows
	}
	if ctx == nil {
		ctx = context.Background()
	}
	entry := l.Logger.WithContext(ctx)

	switch outcome {
	case traceFailed:
		fields["error"] = err.Error()
		entry.WithFields(fields).Error("SQL executed")
	case traceSlow:
		fields["slow_threshold"] = l.SlowThreshold.String()
		entry.WithFields(fields).Warn("SLOW SQL executed")
	default:
		entry.WithFields(fields).Info("SQL executed")
	}
}

// ParamsFilter filters SQL parameters
func (l *LogrusLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	if l.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}
