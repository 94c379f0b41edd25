//go:build unix

package arraydb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraydb/codec"
)

func TestConcurrent_ProcessLock(t *testing.T) {
	ctx := t.Context()
	db := newTestDB[uint64](t, codec.U64{}, []uint64{4})

	first, err := NewConcurrent(ctx, db, WithProcessLock())
	require.NoError(t, err)
	assert.FileExists(t, db.Dir()+"/"+LockFileName)

	short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = NewConcurrent(short, db, WithProcessLock())
	assert.ErrorIs(t, err, ErrProcessLocked)

	require.NoError(t, first.Close())

	second, err := NewConcurrent(ctx, db, WithProcessLock())
	require.NoError(t, err)
	require.NoError(t, second.Write(ctx, []uint64{1}, 5))
	require.NoError(t, second.Close())
}
