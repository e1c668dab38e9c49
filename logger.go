package framemem

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with framemem-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// WithWorker adds a worker field to the logger.
func (l *Logger) WithWorker(worker int) *Logger {
	return &Logger{
		Logger: l.Logger.With("worker", worker),
	}
}

// LogArenaCreated logs an arena reservation.
func (l *Logger) LogArenaCreated(ctx context.Context, capacity int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "arena reservation failed",
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena reserved",
			"capacity", capacity,
		)
	}
}

// LogArenaReleased logs an arena release.
func (l *Logger) LogArenaReleased(ctx context.Context, capacity, peak int, err error) {
	if err != nil {
		l.WarnContext(ctx, "arena release failed",
			"capacity", capacity,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena released",
			"capacity", capacity,
			"peak", peak,
		)
	}
}

// LogSnapshot logs an arena snapshot write or restore.
func (l *Logger) LogSnapshot(ctx context.Context, op string, bytes int64, compression string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "arena snapshot failed",
			"op", op,
			"compression", compression,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "arena snapshot completed",
			"op", op,
			"bytes", bytes,
			"compression", compression,
		)
	}
}

// LogWorker logs the end of a scratch worker.
func (l *Logger) LogWorker(ctx context.Context, worker int, err error) {
	if err != nil {
		l.WarnContext(ctx, "scratch worker failed",
			"worker", worker,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scratch worker completed",
			"worker", worker,
		)
	}
}
