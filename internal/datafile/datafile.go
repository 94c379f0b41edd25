// Package datafile reads and writes the data file "db" of an arraydb
// database: a headerless packed sequence of fixed-size codec slots.
package datafile

import (
	"io"
	"os"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/internal/fs"
)

// FileName is the data file name inside a database directory.
const FileName = "db"

// Path returns the data file path for dir.
func Path(dir string) string { return dir + "/" + FileName }

// Create creates an empty data file. With exclusive set an existing file
// fails with fs.ErrExist; otherwise it is truncated.
func Create(fsys fs.FileSystem, dir string, exclusive bool) error {
	flag := os.O_CREATE | os.O_RDWR
	if exclusive {
		flag |= os.O_EXCL
	} else {
		flag |= os.O_TRUNC
	}
	f, err := fsys.OpenFile(Path(dir), flag, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Size returns the data file length in bytes.
func Size(fsys fs.FileSystem, dir string) (int64, error) {
	info, err := fsys.Stat(Path(dir))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// GrowTo extends the data file to size bytes. A file already at least that
// long is left untouched; the data file never shrinks.
func GrowTo(fsys fs.FileSystem, dir string, size int64) (grown bool, err error) {
	f, err := fsys.OpenFile(Path(dir), os.O_RDWR, 0)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() >= size {
		return false, nil
	}
	if err := f.Truncate(size); err != nil {
		return false, err
	}
	return true, nil
}

// Write encodes v at slot. Writing past the end extends the file.
func Write[T any](fsys fs.FileSystem, dir string, c codec.Codec[T], slot uint64, v T) (err error) {
	f, err := fsys.OpenFile(Path(dir), os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return codec.WriteSlot(f, c, slot, v)
}

// Read decodes the value at slot; unallocated slots read as zero.
func Read[T any](fsys fs.FileSystem, dir string, c codec.Codec[T], slot uint64) (T, error) {
	f, err := fsys.OpenFile(Path(dir), os.O_RDONLY, 0)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return codec.ReadSlot(f, c, slot)
}

// Stream writes n raw slots starting at start to w, zero-filling past the
// end of the file.
func Stream[T any](fsys fs.FileSystem, dir string, w io.Writer, c codec.Codec[T], start, n uint64) error {
	f, err := fsys.OpenFile(Path(dir), os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return codec.StreamSlots(w, f, c, start, n)
}
