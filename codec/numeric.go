package codec

import (
	"encoding/binary"
	"math"
)

// U64 stores little-endian unsigned 64-bit integers.
type U64 struct{}

func (U64) ValueSize() int { return 8 }

func (U64) Encode(dst []byte, v uint64) error {
	binary.LittleEndian.PutUint64(dst, v)
	return nil
}

func (U64) Decode(src []byte) (uint64, error) {
	return binary.LittleEndian.Uint64(src), nil
}

func (U64) Name() string { return "u64" }

// I16 stores little-endian signed 16-bit integers.
type I16 struct{}

func (I16) ValueSize() int { return 2 }

func (I16) Encode(dst []byte, v int16) error {
	binary.LittleEndian.PutUint16(dst, uint16(v))
	return nil
}

func (I16) Decode(src []byte) (int16, error) {
	return int16(binary.LittleEndian.Uint16(src)), nil
}

func (I16) Name() string { return "i16" }

// F64 stores little-endian IEEE-754 doubles.
type F64 struct{}

func (F64) ValueSize() int { return 8 }

func (F64) Encode(dst []byte, v float64) error {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	return nil
}

func (F64) Decode(src []byte) (float64, error) {
	return math.Float64frombits(binary.LittleEndian.Uint64(src)), nil
}

func (F64) Name() string { return "f64" }
