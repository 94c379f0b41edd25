package arraydb

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/internal/fs"
	"github.com/hupe1980/arraydb/internal/keylib"
)

func TestCheck_Consistent(t *testing.T) {
	ctx := t.Context()
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 3, 2, 4})

	for _, p := range [][]uint64{{1, 1, 1}, {1, 1, 2}, {2, 3, 1}} {
		require.NoError(t, db.Link(ctx, p))
	}

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Problems())

	require.Len(t, report.KeyLibraries, 2)
	assert.Equal(t, 1, report.KeyLibraries[0].Pair)
	assert.Equal(t, uint64(2), report.KeyLibraries[0].Counter)
	assert.Equal(t, uint64(2), report.KeyLibraries[0].Entries)
	assert.Equal(t, uint64(3), report.KeyLibraries[1].Counter)
	assert.Equal(t, int64(3*4*8), report.Data.ExpectedSize)
	assert.Equal(t, report.Data.ExpectedSize, report.Data.ActualSize)
}

func TestCheck_LowDimensions(t *testing.T) {
	ctx := t.Context()
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 3})
	require.NoError(t, db.Write(ctx, []uint64{2, 3}, 1))

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.KeyLibraries)
	assert.Equal(t, int64(48), report.Data.ExpectedSize)

	// A data file longer than the whole shape is reported.
	require.NoError(t, os.Truncate(db.Dir()+"/db", 56))
	report, err = db.Check(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
}

func TestCheck_PartialGrowthIsHarmless(t *testing.T) {
	ctx := t.Context()
	ffs := fs.NewFaultyFS(nil)
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 2, 3}, WithFileSystem(ffs))

	// The data file grows, then the penultimate key library write fails.
	ffs.AddRule("/key2_3", fs.Fault{FailWrites: true})
	err := db.Link(ctx, []uint64{1, 1, 1})
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Equal(t, int64(24), dataSize(t, db.Dir()))

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Problems())
	assert.Equal(t, int64(0), report.Data.ExpectedSize)
	assert.Equal(t, int64(24), report.Data.ActualSize)

	// Retrying reissues the same row without growing again.
	ffs.ClearRules()
	require.NoError(t, db.Link(ctx, []uint64{1, 1, 1}))
	assert.Equal(t, int64(24), dataSize(t, db.Dir()))

	require.NoError(t, db.Write(ctx, []uint64{1, 1, 1, 3}, 9))
	v, err := db.Read(ctx, []uint64{1, 1, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)
}

func TestCheck_FailedGrowthIssuesNothing(t *testing.T) {
	ctx := t.Context()
	ffs := fs.NewFaultyFS(nil)
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 3}, WithFileSystem(ffs))

	ffs.AddRule("/db", fs.Fault{FailOnTruncate: true})
	err := db.Link(ctx, []uint64{2, 2})
	assert.ErrorIs(t, err, fs.ErrInjected)

	ok, err := db.IsLinked(ctx, []uint64{2, 2})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, dataSize(t, db.Dir()))
}

func TestCheck_OrphanEntry(t *testing.T) {
	ctx := t.Context()
	ffs := fs.NewFaultyFS(nil)
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 3}, WithFileSystem(ffs))

	// The entry slot is written but the counter update fails.
	ffs.AddRule("/key1_2", fs.Fault{FailWrites: true, AllowBytes: 8})
	err := db.Link(ctx, []uint64{2, 1})
	assert.ErrorIs(t, err, fs.ErrInjected)
	ffs.ClearRules()

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []uint64{1}, report.KeyLibraries[0].Orphans)
	assert.Zero(t, report.KeyLibraries[0].Counter)
	assert.Equal(t, int64(0), report.Data.ExpectedSize)
	assert.Equal(t, int64(24), report.Data.ActualSize)
}

func TestCheck_DuplicatesAndGaps(t *testing.T) {
	ctx := t.Context()
	db := newTestDB[uint64](t, codec.U64{}, []uint64{3, 3, 2})
	require.NoError(t, db.Link(ctx, []uint64{1, 1}))
	require.NoError(t, db.Link(ctx, []uint64{1, 2}))

	path := keylib.Path(db.Dir(), 1)

	// Point (3, 3) at key 2 as well, and raise the counter past every entry.
	require.NoError(t, codec.WriteToDB(path, codec.U64{}, 9, 2))
	require.NoError(t, codec.WriteToDB(path, codec.U64{}, 0, 4))

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())

	kl := report.KeyLibraries[0]
	assert.Equal(t, []uint64{2}, kl.Duplicates)
	assert.Equal(t, uint64(2), kl.Gaps)
	assert.Empty(t, kl.Orphans)
	assert.Len(t, report.Problems(), 3)
}

func TestCheck_StrayEntry(t *testing.T) {
	ctx := t.Context()
	db := newTestDB[uint64](t, codec.U64{}, []uint64{2, 2, 2, 2})
	require.NoError(t, db.Link(ctx, []uint64{1, 1, 1}))

	// Entry for row x=3 in key2_3, but key1_2 issued only one key.
	require.NoError(t, codec.WriteToDB(keylib.Path(db.Dir(), 2), codec.U64{}, 5, 2))
	require.NoError(t, codec.WriteToDB(keylib.Path(db.Dir(), 2), codec.U64{}, 0, 2))

	report, err := db.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), report.KeyLibraries[1].StrayEntries)
	assert.False(t, report.OK())
}
