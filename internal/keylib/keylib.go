// Package keylib reads and writes the key libraries of an arraydb database.
//
// Key library i (file "key{i}_{i+1}") maps a coordinate pair (x, y) of axes
// i and i+1 to a dense forward key. The file is a sequence of little-endian
// uint64 slots: slot 0 holds the last key issued, and slot
// 1 + (x-1)·m + (y-1) holds the key for (x, y), where m is the capacity of
// axis i+1. A file shorter than a slot reads that slot as zero.
package keylib

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/internal/conv"
	"github.com/hupe1980/arraydb/internal/fs"
)

var u64 codec.U64

// FileName returns the file name of the key library for pair (i, i+1).
func FileName(i int) string {
	return "key" + strconv.Itoa(i) + "_" + strconv.Itoa(i+1)
}

// Path returns the key library path for pair (i, i+1) inside dir.
func Path(dir string, i int) string { return dir + "/" + FileName(i) }

// EntrySlot returns the slot holding the key for (x, y) given the capacity
// ym of the y axis. Coordinates are 1-indexed.
func EntrySlot(x, y, ym uint64) (uint64, error) {
	if x == 0 || y == 0 {
		return 0, fmt.Errorf("key library coordinate (%d, %d) is not 1-indexed", x, y)
	}
	row, err := conv.MulUint64(x-1, ym)
	if err != nil {
		return 0, err
	}
	slot := row + y
	if slot < row {
		return 0, fmt.Errorf("integer overflow: key slot for (%d, %d)", x, y)
	}
	return slot, nil
}

// Create creates an empty key library for pair (i, i+1). With exclusive set
// an existing file fails with fs.ErrExist; otherwise it is truncated.
func Create(fsys fs.FileSystem, dir string, i int, exclusive bool) error {
	flag := os.O_CREATE | os.O_RDWR
	if exclusive {
		flag |= os.O_EXCL
	} else {
		flag |= os.O_TRUNC
	}
	f, err := fsys.OpenFile(Path(dir, i), flag, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Get returns the forward key for (x, y), or 0 if none has been issued.
func Get(fsys fs.FileSystem, path string, x, y, ym uint64) (uint64, error) {
	slot, err := EntrySlot(x, y, ym)
	if err != nil {
		return 0, err
	}
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return codec.ReadSlot(f, u64, slot)
}

// Counter returns the last forward key issued by the library at path.
func Counter(fsys fs.FileSystem, path string) (uint64, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return codec.ReadSlot(f, u64, 0)
}

// Add issues the next forward key for (x, y) and returns it.
//
// onIssue, if non-nil, runs with the new key before anything is written to
// the library; an error from it aborts the issue. After it succeeds the
// entry slot is written first and the counter last, so a failure in between
// leaves an entry above the counter rather than a counted key with no entry.
// Callers must check Get first: Add never looks at the existing entry.
func Add(fsys fs.FileSystem, path string, x, y, ym uint64, onIssue func(key uint64) error) (key uint64, err error) {
	slot, err := EntrySlot(x, y, ym)
	if err != nil {
		return 0, err
	}

	f, err := fsys.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	last, err := codec.ReadSlot(f, u64, 0)
	if err != nil {
		return 0, err
	}
	key = last + 1

	if onIssue != nil {
		if err := onIssue(key); err != nil {
			return 0, err
		}
	}
	if err := codec.WriteSlot(f, u64, slot, key); err != nil {
		return 0, err
	}
	if err := codec.WriteSlot(f, u64, 0, key); err != nil {
		return 0, err
	}
	return key, nil
}

// Entry is one non-zero entry of a key library.
type Entry struct {
	Slot uint64
	Key  uint64
}

// Scan reads the whole library at path and calls fn for every non-zero
// entry slot in ascending order. It returns the counter stored in slot 0
// and the file size.
func Scan(fsys fs.FileSystem, path string, fn func(Entry) error) (counter uint64, size int64, err error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}
	size = info.Size()

	counter, err = codec.ReadSlot(f, u64, 0)
	if err != nil {
		return 0, 0, err
	}

	slots, err := conv.Int64ToUint64(size / int64(u64.ValueSize()))
	if err != nil {
		return 0, 0, err
	}
	for slot := uint64(1); slot < slots; slot++ {
		k, err := codec.ReadSlot(f, u64, slot)
		if err != nil {
			return 0, 0, err
		}
		if k == 0 {
			continue
		}
		if err := fn(Entry{Slot: slot, Key: k}); err != nil {
			return 0, 0, err
		}
	}
	return counter, size, nil
}
