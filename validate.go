package arraydb

func (d *DB[T]) checkIndex(i int, v uint64) error {
	if v < 1 || v > d.axes[i] {
		return &ErrIndexOutOfRange{DimensionIndex: i, Requested: v, Min: 1, Max: d.axes[i]}
	}
	return nil
}

func (d *DB[T]) checkCoords(coords []uint64, want int) error {
	if len(coords) != want {
		return &ErrDimensionsOutOfRange{Requested: len(coords), Min: want, Max: want}
	}
	for i, v := range coords {
		if err := d.checkIndex(i, v); err != nil {
			return err
		}
	}
	return nil
}

// validateAddress checks that addr has N coordinates, each within 1..m_i.
// Linkage is checked while the address is resolved.
func (d *DB[T]) validateAddress(addr []uint64) error {
	return d.checkCoords(addr, len(d.axes))
}

// validatePrefix checks that prefix has N-1 coordinates, each within 1..m_i.
func (d *DB[T]) validatePrefix(prefix []uint64) error {
	return d.checkCoords(prefix, len(d.axes)-1)
}

// validateStream checks addr and that the run of n cells stays inside the
// last axis.
func (d *DB[T]) validateStream(addr []uint64, n uint64) error {
	if err := d.validateAddress(addr); err != nil {
		return err
	}
	last := len(d.axes) - 1
	if n == 0 {
		return nil
	}
	end := addr[last] + n - 1
	if end < addr[last] || end > d.axes[last] {
		return &ErrIndexOutOfRange{DimensionIndex: last, Requested: end, Min: 1, Max: d.axes[last]}
	}
	return nil
}
