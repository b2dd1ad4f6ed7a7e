package sparsego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsego-specific context.
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

// WithDomain adds a domain-size field to the logger.
func (l *Logger) WithDomain(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("domain", n),
	}
}

// WithTiles adds a tile-count field to the logger.
func (l *Logger) WithTiles(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("tiles", n),
	}
}

// LogExecute logs one pipeline execution.
func (l *Logger) LogExecute(ctx context.Context, stages, tiles int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pipeline execution failed",
			"stages", stages,
			"tiles", tiles,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "pipeline execution completed",
			"stages", stages,
			"tiles", tiles,
		)
	}
}

// LogCommit logs the merge of all tiles back into the shared index.
func (l *Logger) LogCommit(ctx context.Context, tiles, nonzeroes int) {
	l.DebugContext(ctx, "tiles committed",
		"tiles", tiles,
		"nonzeroes", nonzeroes,
	)
}
