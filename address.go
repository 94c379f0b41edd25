package arraydb

import (
	"fmt"

	"github.com/hupe1980/arraydb/internal/conv"
	"github.com/hupe1980/arraydb/internal/keylib"
)

// slotOf translates a 1-indexed address into a data file slot by walking
// the key libraries of pairs 1..N-2.
func (d *DB[T]) slotOf(addr []uint64) (uint64, error) {
	n := len(d.axes)
	if len(addr) != n {
		return 0, &ErrDimensionsOutOfRange{Requested: len(addr), Min: n, Max: n}
	}
	if n == 1 {
		return addr[0] - 1, nil
	}

	x := addr[0]
	for i := 1; i <= n-2; i++ {
		k, err := keylib.Get(d.fs, keylib.Path(d.dir, i), x, addr[i], d.axes[i])
		if err != nil {
			return 0, err
		}
		if k == 0 {
			return 0, &ErrElementsNotLinked{
				XDimension: i - 1,
				X:          addr[i-1],
				YDimension: i,
				Y:          addr[i],
			}
		}
		x = k
	}

	last := d.axes[n-1]
	row, err := conv.MulUint64(x-1, last)
	if err != nil {
		return 0, fmt.Errorf("address %v: %w", addr, err)
	}
	return row + addr[n-1] - 1, nil
}
