package quiltarena

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithArena tags every record with the arena implementation.
func (l *Logger) WithArena(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("arena", name),
	}
}

// LogLoad logs a single load.
func (l *Logger) LogLoad(ctx context.Context, op Op, path string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"op", op.String(),
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"op", op.String(),
			"path", path,
			"size", size,
		)
	}
}

// LogStats logs an end-of-run statistics snapshot.
func (l *Logger) LogStats(ctx context.Context, s Stats) {
	l.InfoContext(ctx, s.String(),
		"loaded_files", s.LoadedFiles,
		"total_size", s.TotalSize,
		"mapped_files", s.MappedFiles,
		"owned_files", s.OwnedFiles,
	)
}

// LogClose logs arena teardown.
func (l *Logger) LogClose(ctx context.Context, released int, bytes int64, err error) {
	if err != nil {
		l.WarnContext(ctx, "arena closed with release failures",
			"released", released,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena closed",
			"released", released,
			"bytes", bytes,
		)
	}
}
