package arraydb

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraydb/codec"
)

func TestMetricsCollector(t *testing.T) {
	ctx := t.Context()
	mc := &BasicMetricsCollector{}
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 4}, WithMetricsCollector(mc))

	require.NoError(t, db.Link(ctx, []uint64{1, 2}))
	require.NoError(t, db.Link(ctx, []uint64{1, 2}))
	require.NoError(t, db.Write(ctx, []uint64{1, 2, 3}, 1))
	_, err := db.Read(ctx, []uint64{1, 2, 3})
	require.NoError(t, err)
	_, err = db.Read(ctx, []uint64{2, 2, 3})
	require.Error(t, err)
	require.NoError(t, db.ReadStream(ctx, &bytes.Buffer{}, []uint64{1, 2, 1}, 4))

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.LinkCount)
	assert.Equal(t, int64(1), stats.KeysIssued)
	assert.Equal(t, int64(1), stats.WriteCount)
	assert.Equal(t, int64(2), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Equal(t, int64(1), stats.StreamCount)
	assert.Equal(t, int64(4), stats.StreamSlots)
}

func TestLogger(t *testing.T) {
	ctx := t.Context()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 2}, WithLogger(logger))
	require.NoError(t, db.Link(ctx, []uint64{2, 2}))

	out := buf.String()
	assert.Contains(t, out, "create completed")
	assert.Contains(t, out, "link completed")
	assert.Contains(t, out, "row_allocated=true")
	assert.Contains(t, out, "dir="+db.Dir())

	buf.Reset()
	require.NoError(t, codec.WriteToDB(db.Dir()+"/key1_2", codec.U64{}, 0, 5))
	_, err := db.Check(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "check problem")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	l.WithAddress([]uint64{1, 2}).Info("ignored")
}
