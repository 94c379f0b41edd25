package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/arraydb/internal/conv"
)

// streamChunk is the target buffer size for StreamSlots.
const streamChunk = 64 << 10

// WriteSlot encodes v and writes it at slot. Writing past the end of the
// file extends it.
func WriteSlot[T any](w io.WriterAt, c Codec[T], slot uint64, v T) error {
	off, err := conv.ByteOffset(slot, c.ValueSize())
	if err != nil {
		return err
	}
	buf := make([]byte, c.ValueSize())
	if err := c.Encode(buf, v); err != nil {
		return err
	}
	_, err = w.WriteAt(buf, off)
	return err
}

// ReadSlot reads and decodes the value at slot. A slot that lies wholly or
// partly beyond the end of the file reads as the zero value of T.
func ReadSlot[T any](r io.ReaderAt, c Codec[T], slot uint64) (T, error) {
	var zero T

	off, err := conv.ByteOffset(slot, c.ValueSize())
	if err != nil {
		return zero, err
	}
	buf := make([]byte, c.ValueSize())
	n, err := r.ReadAt(buf, off)
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			return zero, nil
		}
		return zero, err
	}
	return c.Decode(buf)
}

// StreamSlots writes the raw bytes of n slots starting at start to w.
// Regions beyond the end of the file are zero-filled, so exactly n·S bytes
// are emitted on success.
func StreamSlots[T any](w io.Writer, r io.ReaderAt, c Codec[T], start, n uint64) error {
	size := c.ValueSize()
	off, err := conv.ByteOffset(start, size)
	if err != nil {
		return err
	}
	total, err := conv.MulUint64(n, uint64(size))
	if err != nil {
		return err
	}
	if _, err := conv.Uint64ToInt64(total); err != nil {
		return err
	}

	chunk := max(streamChunk/size, 1) * size
	buf := make([]byte, chunk)
	eof := false

	for remaining := total; remaining > 0; {
		want := chunk
		if remaining < uint64(chunk) {
			want = int(remaining)
		}
		p := buf[:want]

		got := 0
		if !eof {
			got, err = r.ReadAt(p, off)
			if got < want {
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("stream slot read: %w", err)
				}
				eof = true
			}
		}
		clear(p[got:])

		if _, err := w.Write(p); err != nil {
			return err
		}
		off += int64(want)
		remaining -= uint64(want)
	}
	return nil
}
