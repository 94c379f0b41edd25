package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// NullFloat64 is a float64 that may be null.
type NullFloat64 struct {
	Float64 float64
	Valid   bool // Valid is true if Float64 is not null
}

// Float returns a present value.
func Float(v float64) NullFloat64 {
	return NullFloat64{Float64: v, Valid: true}
}

func (n NullFloat64) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

const (
	nullTag    = 0
	presentTag = 1
)

// NullableF64 stores a tag byte (0 null, 1 present) followed by a
// little-endian double. Null slots carry eight zero bytes.
type NullableF64 struct{}

func (NullableF64) ValueSize() int { return 9 }

func (NullableF64) Encode(dst []byte, v NullFloat64) error {
	if !v.Valid {
		clear(dst[:9])
		return nil
	}
	dst[0] = presentTag
	binary.LittleEndian.PutUint64(dst[1:9], math.Float64bits(v.Float64))
	return nil
}

func (NullableF64) Decode(src []byte) (NullFloat64, error) {
	switch src[0] {
	case nullTag:
		return NullFloat64{}, nil
	case presentTag:
		return Float(math.Float64frombits(binary.LittleEndian.Uint64(src[1:9]))), nil
	default:
		return NullFloat64{}, fmt.Errorf("%w: nullable tag %d", ErrCorruptValue, src[0])
	}
}

func (NullableF64) Name() string { return "nf64" }
