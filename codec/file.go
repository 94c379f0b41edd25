package codec

import (
	"io"
	"os"
)

// WriteToDB opens the file at path, writes v at slot and closes the file.
// The file must already exist.
func WriteToDB[T any](path string, c Codec[T], slot uint64, v T) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSlot(f, c, slot, v)
}

// ReadFromDB opens the file at path and reads the value at slot.
// Slots beyond the end of the file read as the zero value.
func ReadFromDB[T any](path string, c Codec[T], slot uint64) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return ReadSlot(f, c, slot)
}

// ReadToStream opens the file at path and writes the raw bytes of n slots
// starting at start to w, zero-filling past the end of the file.
func ReadToStream[T any](path string, w io.Writer, c Codec[T], start, n uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return StreamSlots(w, f, c, start, n)
}
