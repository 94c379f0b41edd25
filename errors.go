package arraydb

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrDimensionTooSmall is returned when an axis capacity is zero.
	ErrDimensionTooSmall = errors.New("dimension too small")

	// ErrAlreadyExists is returned by Create when a database file already
	// exists. Errors wrapping it also match fs.ErrExist.
	ErrAlreadyExists = errors.New("database already exists")
)

// ErrIndexOutOfRange indicates an address coordinate outside 1..m_i.
type ErrIndexOutOfRange struct {
	DimensionIndex int // 0-based
	Requested      uint64
	Min            uint64
	Max            uint64
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index out of range: dimension %d requested %d, valid range %d..%d",
		e.DimensionIndex, e.Requested, e.Min, e.Max)
}

// ErrDimensionsOutOfRange indicates an address or shape with the wrong
// number of coordinates.
type ErrDimensionsOutOfRange struct {
	Requested int
	Min       int
	Max       int
}

func (e *ErrDimensionsOutOfRange) Error() string {
	return fmt.Sprintf("dimensions out of range: requested %d, valid range %d..%d",
		e.Requested, e.Min, e.Max)
}

// ErrElementsNotLinked indicates an address whose prefix has not been
// linked. Dimensions are 0-based; X and Y are the caller's coordinates.
type ErrElementsNotLinked struct {
	XDimension int
	X          uint64
	YDimension int
	Y          uint64
}

func (e *ErrElementsNotLinked) Error() string {
	return fmt.Sprintf("elements not linked: dimension %d = %d, dimension %d = %d",
		e.XDimension, e.X, e.YDimension, e.Y)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) && !errors.Is(err, ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return err
}
