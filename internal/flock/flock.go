package flock

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"
)

// ErrLocked is returned by TryLock when another holder owns the lock.
var ErrLocked = errors.New("flock: already locked")

// pollInterval is how often Lock retries while the lock is held elsewhere.
const pollInterval = 10 * time.Millisecond

// Lock is an exclusive advisory lock on a file.
//
// A Lock is not reentrant. Within one process callers serialize through it
// with their own mutex; the sidecar file only excludes other processes.
type Lock struct {
	path string

	mu sync.Mutex
	f  *os.File
}

// New returns a lock on path. The file is created on first acquisition.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the sidecar file path.
func (l *Lock) Path() string { return l.path }

// TryLock acquires the lock without blocking.
func (l *Lock) TryLock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f != nil {
		return ErrLocked
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	if err := tryLockFile(f); err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	return nil
}

// Lock acquires the lock, polling until it is free or ctx is done.
func (l *Lock) Lock(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		err := l.TryLock()
		if !errors.Is(err, ErrLocked) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *Lock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	if err := unlockFile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
