package gridloc

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with locator-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogBuild logs a grid (re)initialisation.
func (l *Logger) LogBuild(ctx context.Context, mode string, divisions []int, points int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "locator init failed",
			"mode", mode,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "locator initialized",
		"mode", mode,
		"divisions", divisions,
		"points", points,
		"duration", duration,
	)
}

// LogInsert logs a single point insertion.
func (l *Logger) LogInsert(ctx context.Context, id uint64, inserted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"id", id,
			"inserted", inserted,
		)
	}
}

// LogSearch logs a proximity query.
func (l *Logger) LogSearch(ctx context.Context, op string, bucketsVisited, found int, err error) {
	if err != nil {
		l.DebugContext(ctx, "search failed",
			"op", op,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"op", op,
			"buckets_visited", bucketsVisited,
			"found", found,
		)
	}
}

// LogBatchSearch logs a concurrent batch of closest-point queries.
func (l *Logger) LogBatchSearch(ctx context.Context, count int, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch search aborted",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch search completed",
			"count", count,
		)
	}
}
