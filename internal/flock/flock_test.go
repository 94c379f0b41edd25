//go:build unix

package flock

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_ExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")

	a := New(path)
	b := New(path)

	require.NoError(t, a.TryLock())
	assert.ErrorIs(t, a.TryLock(), ErrLocked)

	// flock(2) locks belong to the open file description, so a second
	// handle in the same process is excluded as another process would be.
	assert.ErrorIs(t, b.TryLock(), ErrLocked)

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Lock(ctx), context.DeadlineExceeded)

	require.NoError(t, a.Unlock())
	require.NoError(t, b.Lock(t.Context()))
	require.NoError(t, b.Unlock())
}

func TestLock_UnlockIdempotent(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "lock"))
	require.NoError(t, l.Unlock())
	require.NoError(t, l.TryLock())
	require.NoError(t, l.Unlock())
	require.NoError(t, l.Unlock())
	assert.FileExists(t, l.Path())
}
