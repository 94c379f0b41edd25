package arraydb

import (
	"log/slog"

	"github.com/hupe1980/arraydb/internal/fs"
	"github.com/hupe1980/arraydb/internal/resource"
)

type options struct {
	fs               fs.FileSystem
	metricsCollector MetricsCollector
	logger           *Logger
	resource         resource.Config
}

// Option configures Create, CreateUnchecked and Open.
type Option func(*options)

// WithFileSystem sets the filesystem used for every database file.
// Tests use it to inject faults.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &arraydb.BasicMetricsCollector{}
//	db, _ := arraydb.Open(ctx, dir, codec.U64{}, arraydb.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Writes: %d, Avg latency: %dns\n", stats.WriteCount, stats.WriteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := arraydb.NewJSONLogger(slog.LevelInfo)
//	db, _ := arraydb.Open(ctx, dir, codec.U64{}, arraydb.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithStreamRateLimit caps the bytes per second emitted by ReadStream.
// Zero disables the limit.
func WithStreamRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.resource.StreamBytesPerSec = bytesPerSec
	}
}

// WithMaxConcurrentOps caps the operations in flight on one handle.
// Zero disables the cap.
func WithMaxConcurrentOps(n int64) Option {
	return func(o *options) {
		o.resource.MaxConcurrentOps = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		fs:               fs.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
