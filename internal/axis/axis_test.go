package axis

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraydb/internal/fs"
)

func TestCreateAndRead(t *testing.T) {
	dir := t.TempDir()
	axes := []uint64{2, 5, 3, 2}

	require.NoError(t, Create(fs.Default, dir, axes, true))

	raw, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	require.Len(t, raw, 40)
	assert.Equal(t, uint64(4), binary.LittleEndian.Uint64(raw[0:8]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(raw[24:32]))

	n, err := Count(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	for i, m := range axes {
		got, err := GetByID(fs.Default, dir, uint64(i)+1)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	loaded, err := Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, axes, loaded)

	_, err = GetByID(fs.Default, dir, 0)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCreate_Exclusive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Create(fs.Default, dir, []uint64{5}, true))

	err := Create(fs.Default, dir, []uint64{7}, true)
	assert.ErrorIs(t, err, os.ErrExist)

	// Permissive create truncates and rewrites.
	require.NoError(t, Create(fs.Default, dir, []uint64{7, 8}, false))
	loaded, err := Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 8}, loaded)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(fs.Default, dir)
	assert.ErrorIs(t, err, os.ErrNotExist)

	write := func(slots ...uint64) {
		buf := make([]byte, 8*len(slots))
		for i, s := range slots {
			binary.LittleEndian.PutUint64(buf[8*i:], s)
		}
		require.NoError(t, os.WriteFile(Path(dir), buf, 0o644))
	}

	write(0)
	_, err = Load(fs.Default, dir)
	assert.ErrorIs(t, err, ErrMalformed)

	write(3, 1, 1)
	_, err = Load(fs.Default, dir)
	assert.ErrorIs(t, err, ErrMalformed)

	write(2, 1, 0)
	_, err = Load(fs.Default, dir)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCreate_FaultPropagates(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("/ax", fs.Fault{FailWrites: true})

	err := Create(ffs, t.TempDir(), []uint64{1, 2}, true)
	assert.ErrorIs(t, err, fs.ErrInjected)
}
