package snapshot

import (
	"time"

	"github.com/hupe1980/arraydb"
	"github.com/hupe1980/arraydb/internal/fs"
	"github.com/hupe1980/arraydb/internal/resource"
)

// DefaultConcurrency is the number of files transferred in parallel.
const DefaultConcurrency = 4

type options struct {
	fs          fs.FileSystem
	concurrency int
	logger      *arraydb.Logger
	resource    resource.Config
	now         func() time.Time
}

// Option configures Export and Import.
type Option func(*options)

// WithFileSystem sets the file system holding the database directory.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithConcurrency sets how many files are transferred in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *arraydb.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBandwidth caps the combined transfer rate in bytes per second.
// Zero means unlimited.
func WithBandwidth(bytesPerSec int64) Option {
	return func(o *options) {
		o.resource.StreamBytesPerSec = bytesPerSec
	}
}

func applyOptions(opts []Option) options {
	o := options{
		fs:          fs.Default,
		concurrency: DefaultConcurrency,
		logger:      arraydb.NoopLogger(),
		now:         time.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
