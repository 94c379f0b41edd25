package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// MaxTinyTextLen is the largest encoded length of a TinyText value in bytes.
const MaxTinyTextLen = 1020

// TinyText stores short UTF-8 strings as a 2-byte little-endian length
// followed by the bytes, zero-padded to 1022 bytes.
type TinyText struct{}

func (TinyText) ValueSize() int { return 2 + MaxTinyTextLen }

func (TinyText) Encode(dst []byte, v string) error {
	if len(v) > MaxTinyTextLen {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrValueTooLarge, len(v), MaxTinyTextLen)
	}
	if !utf8.ValidString(v) {
		return ErrInvalidText
	}
	binary.LittleEndian.PutUint16(dst, uint16(len(v)))
	n := copy(dst[2:], v)
	clear(dst[2+n : 2+MaxTinyTextLen])
	return nil
}

func (TinyText) Decode(src []byte) (string, error) {
	l := int(binary.LittleEndian.Uint16(src))
	if l > MaxTinyTextLen {
		return "", fmt.Errorf("%w: text length %d", ErrCorruptValue, l)
	}
	b := src[2 : 2+l]
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %w", ErrCorruptValue, ErrInvalidText)
	}
	return string(b), nil
}

func (TinyText) Name() string { return "text" }
