package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// Uint64ToInt64 converts uint64 to int64 safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// Int64ToUint64 converts int64 to uint64 safely.
func Int64ToUint64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// MulUint64 returns a*b, or an error if the product overflows.
func MulUint64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("integer overflow: %d * %d exceeds uint64", a, b)
	}
	return lo, nil
}

// ByteOffset returns index*size as a file offset.
func ByteOffset(index uint64, size int) (int64, error) {
	if size < 0 {
		return 0, fmt.Errorf("integer overflow: negative slot size %d", size)
	}
	off, err := MulUint64(index, uint64(size))
	if err != nil {
		return 0, err
	}
	return Uint64ToInt64(off)
}
