package codec

import (
	"fmt"
	"io"
)

// maxPrealloc bounds the initial capacity UnpackAll reserves.
const maxPrealloc = 1 << 16

// Unpack reads n slots produced by a stream read from r and calls fn with
// the position and decoded value of each, in order. A stream that ends
// early yields io.ErrUnexpectedEOF.
func Unpack[T any](r io.Reader, c Codec[T], n uint64, fn func(i uint64, v T) error) error {
	buf := make([]byte, c.ValueSize())
	for i := range n {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("unpack slot %d: %w", i, err)
		}
		v, err := c.Decode(buf)
		if err != nil {
			return fmt.Errorf("unpack slot %d: %w", i, err)
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
	return nil
}

// UnpackAll reads n slots from r and returns the decoded values.
func UnpackAll[T any](r io.Reader, c Codec[T], n uint64) ([]T, error) {
	out := make([]T, 0, min(n, maxPrealloc))
	err := Unpack(r, c, n, func(_ uint64, v T) error {
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
