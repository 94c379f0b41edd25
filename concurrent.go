package arraydb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/arraydb/internal/flock"
	"github.com/hupe1980/arraydb/internal/locktable"
)

// LockFileName is the sidecar file used by WithProcessLock.
const LockFileName = "lock"

// ErrProcessLocked is returned by NewConcurrent when another process
// holds the process lock and the context expires first.
var ErrProcessLocked = errors.New("database locked by another process")

type concurrentOptions struct {
	shards      int
	processLock bool
}

// ConcurrentOption configures NewConcurrent.
type ConcurrentOption func(*concurrentOptions)

// WithLockShards sets the number of cell lock shards. Defaults to 64.
func WithLockShards(n int) ConcurrentOption {
	return func(o *concurrentOptions) {
		o.shards = n
	}
}

// WithProcessLock makes NewConcurrent take an exclusive flock(2) on the
// sidecar file "lock" in the database directory for the lifetime of the
// handle, so a second process cannot open a writer on the same database.
func WithProcessLock() ConcurrentOption {
	return func(o *concurrentOptions) {
		o.processLock = true
	}
}

// Concurrent wraps a DB for use by many goroutines at once.
//
// Link runs exclusively: it holds the growth lock, so no other operation
// observes a key library or the data file mid-growth. Write, Read and
// ReadStream share the growth lock and then lock the cells they touch
// through a sharded lock table keyed by data file slot: a write excludes
// every other access to its cell, readers of a cell run in parallel.
type Concurrent[T any] struct {
	db     *DB[T]
	growMu sync.RWMutex
	cells  *locktable.Table
	plock  *flock.Lock
}

// NewConcurrent wraps db. With WithProcessLock it blocks until the process
// lock is acquired or ctx is done.
func NewConcurrent[T any](ctx context.Context, db *DB[T], opts ...ConcurrentOption) (*Concurrent[T], error) {
	var o concurrentOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	c := &Concurrent[T]{
		db:    db,
		cells: locktable.NewTable(o.shards),
	}
	if o.processLock {
		l := flock.New(db.dir + "/" + LockFileName)
		if err := l.Lock(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrProcessLocked, err)
			}
			return nil, err
		}
		c.plock = l
		db.logger.DebugContext(ctx, "process lock acquired", "path", l.Path())
	}
	return c, nil
}

// DB returns the wrapped handle.
func (c *Concurrent[T]) DB() *DB[T] { return c.db }

// Close releases the process lock, if held.
func (c *Concurrent[T]) Close() error {
	if c.plock == nil {
		return nil
	}
	return c.plock.Unlock()
}

func (c *Concurrent[T]) lockCell(slot, _ uint64) func() {
	return c.cells.Lock(slot)
}

func (c *Concurrent[T]) rlockCells(slot, n uint64) func() {
	if n == 1 {
		return c.cells.RLock(slot)
	}
	return c.cells.RLockRange(slot, n)
}

// Link links prefix; see DB.Link.
func (c *Concurrent[T]) Link(ctx context.Context, prefix []uint64) error {
	if err := c.db.validatePrefix(prefix); err != nil {
		return err
	}
	c.growMu.Lock()
	defer c.growMu.Unlock()
	return c.db.LinkUnchecked(ctx, prefix)
}

// IsLinked reports whether prefix is linked; see DB.IsLinked.
func (c *Concurrent[T]) IsLinked(ctx context.Context, prefix []uint64) (bool, error) {
	c.growMu.RLock()
	defer c.growMu.RUnlock()
	return c.db.IsLinked(ctx, prefix)
}

// Write stores v at addr; see DB.Write.
func (c *Concurrent[T]) Write(ctx context.Context, addr []uint64, v T) error {
	if err := c.db.validateAddress(addr); err != nil {
		return err
	}
	c.growMu.RLock()
	defer c.growMu.RUnlock()
	return c.db.write(ctx, addr, v, c.lockCell)
}

// Read returns the value at addr; see DB.Read.
func (c *Concurrent[T]) Read(ctx context.Context, addr []uint64) (T, error) {
	if err := c.db.validateAddress(addr); err != nil {
		var zero T
		return zero, err
	}
	c.growMu.RLock()
	defer c.growMu.RUnlock()
	return c.db.read(ctx, addr, c.rlockCells)
}

// ReadStream writes n raw cells starting at addr to w; see DB.ReadStream.
func (c *Concurrent[T]) ReadStream(ctx context.Context, w io.Writer, addr []uint64, n uint64) error {
	if err := c.db.validateStream(addr, n); err != nil {
		return err
	}
	c.growMu.RLock()
	defer c.growMu.RUnlock()
	return c.db.stream(ctx, w, addr, n, c.rlockCells)
}

// Check verifies the database; see DB.Check. It excludes links for its
// duration.
func (c *Concurrent[T]) Check(ctx context.Context) (*CheckReport, error) {
	c.growMu.Lock()
	defer c.growMu.Unlock()
	return c.db.Check(ctx)
}

// Exclusive runs fn while no link, write or read is in progress. fn receives
// the database directory and may copy its files, for example with
// snapshot.Export.
func (c *Concurrent[T]) Exclusive(ctx context.Context, fn func(ctx context.Context, dir string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.growMu.Lock()
	defer c.growMu.Unlock()
	return fn(ctx, c.db.dir)
}
