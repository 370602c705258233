package prismgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with prism-specific helpers, providing
// structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogFile logs one completed (or failed) file run, mirroring the classic
// one-line summary: name, mode tag, parameters, duration, point counts.
func (l *Logger) LogFile(ctx context.Context, name, mode string, q float64, k, inPoints, outPoints int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sampling failed",
			"file", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "sampled",
		"file", name,
		"mode", mode,
		"q", q,
		"k", k,
		"duration", d.Round(time.Millisecond),
		"in_points", inPoints,
		"out_points", outPoints,
	)
}

// LogSkip logs a file skipped because its completion is already in the
// ledger.
func (l *Logger) LogSkip(ctx context.Context, name string) {
	l.InfoContext(ctx, "already sampled, skipping",
		"file", name,
	)
}

// LogBatch logs the end-of-run summary.
func (l *Logger) LogBatch(ctx context.Context, total, failed, skipped int, d time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", total,
			"failed", failed,
			"skipped", skipped,
			"duration", d.Round(time.Millisecond),
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"total", total,
		"skipped", skipped,
		"duration", d.Round(time.Millisecond),
	)
}
