// Package codec defines how a single array value is stored in a fixed-size
// slot of an arraydb file.
//
// Every codec has a constant ValueSize S. Slot k of a file occupies bytes
// [k·S, (k+1)·S). Variable-length values (text) are length-prefixed and
// zero-padded to S, so the on-disk slot is always exactly S bytes.
//
// Codec selection is a breaking-change boundary: a database written with one
// codec cannot be read back with another.
package codec

import (
	"errors"
)

var (
	// ErrValueTooLarge is returned when a value does not fit in its slot.
	ErrValueTooLarge = errors.New("codec: value too large")

	// ErrInvalidText is returned when a text value is not valid UTF-8.
	ErrInvalidText = errors.New("codec: invalid utf-8 text")

	// ErrCorruptValue is returned when slot bytes cannot be decoded.
	ErrCorruptValue = errors.New("codec: corrupt value")
)

// Codec encodes and decodes values of type T into fixed-size slots.
// Implementations must be safe for concurrent use.
type Codec[T any] interface {
	// ValueSize is the slot size S in bytes.
	ValueSize() int

	// Encode writes v into dst, which is exactly ValueSize bytes long.
	// Every byte of dst is overwritten.
	Encode(dst []byte, v T) error

	// Decode reads a value from src, which is exactly ValueSize bytes long.
	// An all-zero src decodes to the zero value of T.
	Decode(src []byte) (T, error)

	// Name returns the stable name of the codec.
	Name() string
}

// Names lists the stable names of the built-in codecs.
func Names() []string {
	return []string{U64{}.Name(), I16{}.Name(), F64{}.Name(), NullableF64{}.Name(), TinyText{}.Name()}
}
