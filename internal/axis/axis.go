// Package axis reads and writes the axis library of an arraydb database.
//
// The axis library is a single file named "ax" of (1+N)·8 bytes of
// little-endian uint64: slot 0 holds the axis count N and slot i holds the
// capacity m_i of axis i (1-indexed).
package axis

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/internal/conv"
	"github.com/hupe1980/arraydb/internal/fs"
)

// FileName is the axis library file name inside a database directory.
const FileName = "ax"

// ErrMalformed is returned when the axis library contents are inconsistent.
var ErrMalformed = errors.New("axis library malformed")

var u64 codec.U64

// Path returns the axis library path for dir.
func Path(dir string) string { return dir + "/" + FileName }

// Create writes the axis library for axes. With exclusive set an existing
// file fails with fs.ErrExist; otherwise it is truncated.
func Create(fsys fs.FileSystem, dir string, axes []uint64, exclusive bool) (err error) {
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
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	size, err := conv.ByteOffset(uint64(len(axes))+1, u64.ValueSize())
	if err != nil {
		return err
	}
	if err := f.Truncate(size); err != nil {
		return err
	}
	if err := codec.WriteSlot(f, u64, 0, uint64(len(axes))); err != nil {
		return err
	}
	for i, m := range axes {
		if err := codec.WriteSlot(f, u64, uint64(i)+1, m); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the axis count N.
func Count(fsys fs.FileSystem, dir string) (uint64, error) {
	return readSlot(fsys, dir, 0)
}

// GetByID returns the capacity of axis id (1 ≤ id ≤ N).
func GetByID(fsys fs.FileSystem, dir string, id uint64) (uint64, error) {
	if id == 0 {
		return 0, fmt.Errorf("axis id 0: %w", ErrMalformed)
	}
	return readSlot(fsys, dir, id)
}

func readSlot(fsys fs.FileSystem, dir string, slot uint64) (uint64, error) {
	f, err := fsys.OpenFile(Path(dir), os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return codec.ReadSlot(f, u64, slot)
}

// Load reads every axis capacity and validates the file length.
func Load(fsys fs.FileSystem, dir string) ([]uint64, error) {
	f, err := fsys.OpenFile(Path(dir), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	n, err := codec.ReadSlot(f, u64, 0)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: axis count 0", ErrMalformed)
	}
	want, err := conv.ByteOffset(n+1, u64.ValueSize())
	if err != nil || info.Size() != want {
		return nil, fmt.Errorf("%w: %d axes in %d bytes", ErrMalformed, n, info.Size())
	}

	axes := make([]uint64, n)
	for i := range axes {
		m, err := codec.ReadSlot(f, u64, uint64(i)+1)
		if err != nil {
			return nil, err
		}
		if m == 0 {
			return nil, fmt.Errorf("%w: axis %d has capacity 0", ErrMalformed, i+1)
		}
		axes[i] = m
	}
	return axes, nil
}
