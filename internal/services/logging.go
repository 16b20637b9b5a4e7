package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type LogConfig struct {
	Service   string
	Component string
}

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

func (l *ServiceLogger) Logger() *slog.Logger {
	return l.logger
}

// LogOperation records the outcome of one session operation. Expected failures
// (rejected input, wrong state, unknown ids) are not logged as errors.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID string, duration time.Duration, err error) {
	level := slog.LevelDebug
	status := "success"

	switch {
	case err == nil:
	case IsRejection(err):
		status = "rejected"
	case IsValidation(err):
		level, status = slog.LevelWarn, "validation_error"
	case IsNotFound(err):
		level, status = slog.LevelInfo, "not_found"
	case IsConflict(err):
		level, status = slog.LevelInfo, "conflict"
	default:
		level, status = slog.LevelError, "error"
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		var ve ValidationErrors
		if errors.As(err, &ve) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}
