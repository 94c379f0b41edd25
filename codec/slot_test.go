package codec

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func TestWriteReadFromDB(t *testing.T) {
	path := newFile(t)

	require.NoError(t, WriteToDB(path, U64{}, 2, 42))
	assert.Equal(t, int64(24), fileSize(t, path))

	v, err := ReadFromDB(path, U64{}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	// Unwritten and unallocated slots read as zero.
	v, err = ReadFromDB(path, U64{}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = ReadFromDB(path, U64{}, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	// A smaller slot never shrinks the file.
	require.NoError(t, WriteToDB(path, U64{}, 0, 1))
	assert.Equal(t, int64(24), fileSize(t, path))
}

func TestReadFromDB_PartialSlot(t *testing.T) {
	path := newFile(t)
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	v, err := ReadFromDB(path, U64{}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestWriteToDB_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	err := WriteToDB(path, U64{}, 0, 1)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadFromDB(path, U64{}, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.ErrorIs(t, ReadToStream(path, io.Discard, U64{}, 0, 1), os.ErrNotExist)
}

func TestWriteToDB_EncodeError(t *testing.T) {
	path := newFile(t)
	err := WriteToDB(path, TinyText{}, 0, strings.Repeat("x", MaxTinyTextLen+1))
	assert.ErrorIs(t, err, ErrValueTooLarge)
	assert.Equal(t, int64(0), fileSize(t, path))
}

func TestReadToStream_ZeroFill(t *testing.T) {
	path := newFile(t)
	require.NoError(t, WriteToDB(path, U64{}, 2, 42))

	var buf bytes.Buffer
	require.NoError(t, ReadToStream(path, &buf, U64{}, 0, 5))
	assert.Equal(t, 40, buf.Len())

	vals, err := UnpackAll(&buf, U64{}, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 42, 0, 0}, vals)
}

func TestStreamSlots_MultipleChunks(t *testing.T) {
	path := newFile(t)
	c := TinyText{}

	// Enough slots to span several stream chunks, partly past EOF.
	const written = 150
	for i := range uint64(written) {
		require.NoError(t, WriteToDB(path, c, i, strings.Repeat("x", int(i%7))))
	}

	var buf bytes.Buffer
	require.NoError(t, ReadToStream(path, &buf, c, 0, written+50))
	assert.Equal(t, (written+50)*c.ValueSize(), buf.Len())

	vals, err := UnpackAll(&buf, c, written+50)
	require.NoError(t, err)
	for i, v := range vals {
		if i < written {
			assert.Equal(t, strings.Repeat("x", i%7), v)
		} else {
			assert.Empty(t, v)
		}
	}
}

func TestStreamSlots_ZeroCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StreamSlots(&buf, bytes.NewReader(nil), U64{}, 3, 0))
	assert.Equal(t, 0, buf.Len())
}

type failingReaderAt struct{ err error }

func (f failingReaderAt) ReadAt([]byte, int64) (int, error) { return 0, f.err }

func TestSlotIO_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := ReadSlot(failingReaderAt{boom}, U64{}, 0)
	assert.ErrorIs(t, err, boom)

	err = StreamSlots(io.Discard, failingReaderAt{boom}, U64{}, 0, 1)
	assert.ErrorIs(t, err, boom)
}
