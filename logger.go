package arraydb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arraydb-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDir adds the database directory to the logger.
func (l *Logger) WithDir(dir string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dir", dir),
	}
}

// WithAddress adds an address field to the logger.
func (l *Logger) WithAddress(addr []uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("address", addr),
	}
}

// LogCreate logs database creation or open.
func (l *Logger) LogCreate(ctx context.Context, op string, axes []uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"axes", axes,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed",
			"axes", axes,
		)
	}
}

// LogLink logs a link operation. issued is the number of forward keys
// issued and grown reports whether a new data row was allocated.
func (l *Logger) LogLink(ctx context.Context, prefix []uint64, issued int, grown bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "link failed",
			"prefix", prefix,
			"issued", issued,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "link completed",
			"prefix", prefix,
			"issued", issued,
			"row_allocated", grown,
		)
	}
}

// LogCheck logs the outcome of a consistency check.
func (l *Logger) LogCheck(ctx context.Context, report *CheckReport, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "check failed",
			"error", err,
		)
	case !report.OK():
		for _, p := range report.Problems() {
			l.WarnContext(ctx, "check problem", "problem", p)
		}
	default:
		l.InfoContext(ctx, "check completed",
			"key_libraries", len(report.KeyLibraries),
			"data_size", report.Data.ActualSize,
		)
	}
}

// LogSnapshot logs a snapshot export or import.
func (l *Logger) LogSnapshot(ctx context.Context, op, id string, files int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"snapshot", id,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed",
			"snapshot", id,
			"files", files,
			"bytes", bytes,
		)
	}
}
