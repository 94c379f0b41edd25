package arraydb

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/arraydb/codec"
	"github.com/hupe1980/arraydb/internal/axis"
	"github.com/hupe1980/arraydb/internal/conv"
	"github.com/hupe1980/arraydb/internal/datafile"
	"github.com/hupe1980/arraydb/internal/fs"
	"github.com/hupe1980/arraydb/internal/keylib"
	"github.com/hupe1980/arraydb/internal/resource"
)

// DB is a handle to an array database directory storing values of type T.
//
// A DB holds no open files; every operation opens the files it touches and
// closes them before returning. The axis capacities are read once when the
// handle is created. A DB is safe for concurrent readers; concurrent
// writers must go through Concurrent.
type DB[T any] struct {
	dir   string
	codec codec.Codec[T]
	axes  []uint64

	fs      fs.FileSystem
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector
}

// Create creates a database in dir with the given axis capacities.
//
// The shape is validated first: at least one axis and every capacity at
// least 1. Any existing database file makes Create fail with
// ErrAlreadyExists without touching the directory.
func Create[T any](ctx context.Context, dir string, c codec.Codec[T], axes []uint64, opts ...Option) (*DB[T], error) {
	if len(axes) == 0 {
		return nil, &ErrDimensionsOutOfRange{Requested: 0, Min: 1, Max: math.MaxInt}
	}
	for i, m := range axes {
		if m == 0 {
			return nil, fmt.Errorf("axis %d: %w", i+1, ErrDimensionTooSmall)
		}
	}
	return create(ctx, dir, c, axes, true, opts)
}

// CreateUnchecked creates a database in dir without validating the shape.
// Existing database files are truncated.
func CreateUnchecked[T any](ctx context.Context, dir string, c codec.Codec[T], axes []uint64, opts ...Option) (*DB[T], error) {
	return create(ctx, dir, c, axes, false, opts)
}

func create[T any](ctx context.Context, dir string, c codec.Codec[T], axes []uint64, exclusive bool, optFns []Option) (*DB[T], error) {
	d := newDB(dir, c, slices.Clone(axes), optFns)

	err := d.createFiles(ctx, exclusive)
	d.logger.LogCreate(ctx, "create", d.axes, err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB[T]) createFiles(ctx context.Context, exclusive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fs.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}

	names := d.fileNames()
	if exclusive {
		for _, name := range names {
			path := d.dir + "/" + name
			if _, err := d.fs.Stat(path); err == nil {
				return translateError(&iofs.PathError{Op: "create", Path: path, Err: iofs.ErrExist})
			}
		}
	}

	if err := axis.Create(d.fs, d.dir, d.axes, exclusive); err != nil {
		return translateError(err)
	}
	for i := 1; i+1 < len(d.axes); i++ {
		if err := keylib.Create(d.fs, d.dir, i, exclusive); err != nil {
			return translateError(err)
		}
	}
	return translateError(datafile.Create(d.fs, d.dir, exclusive))
}

// Open opens an existing database in dir.
func Open[T any](ctx context.Context, dir string, c codec.Codec[T], opts ...Option) (*DB[T], error) {
	d := newDB(dir, c, nil, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	axes, err := axis.Load(d.fs, dir)
	if err == nil {
		d.axes = axes
		_, err = d.fs.Stat(datafile.Path(dir))
	}
	d.logger.LogCreate(ctx, "open", d.axes, err)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	return d, nil
}

func newDB[T any](dir string, c codec.Codec[T], axes []uint64, optFns []Option) *DB[T] {
	o := applyOptions(optFns)
	return &DB[T]{
		dir:     dir,
		codec:   c,
		axes:    axes,
		fs:      o.fs,
		rc:      resource.NewController(o.resource),
		logger:  o.logger.WithDir(dir),
		metrics: o.metricsCollector,
	}
}

// Dir returns the database directory.
func (d *DB[T]) Dir() string { return d.dir }

// Axes returns a copy of the axis capacities m_1..m_N.
func (d *DB[T]) Axes() []uint64 { return slices.Clone(d.axes) }

// Codec returns the value codec.
func (d *DB[T]) Codec() codec.Codec[T] { return d.codec }

// fileNames lists every file of the database in the order Create writes them.
func (d *DB[T]) fileNames() []string {
	names := []string{axis.FileName}
	for i := 1; i+1 < len(d.axes); i++ {
		names = append(names, keylib.FileName(i))
	}
	return append(names, datafile.FileName)
}

// rowBytes is m_N·S, the size of one data row.
func (d *DB[T]) rowBytes() (uint64, error) {
	return conv.MulUint64(d.axes[len(d.axes)-1], uint64(d.codec.ValueSize()))
}

func (d *DB[T]) begin(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.rc.AcquireOp(ctx); err != nil {
		return nil, err
	}
	return d.rc.ReleaseOp, nil
}

// Link assigns forward keys along prefix (x_1..x_{N-1}) and allocates its
// data row. Linking an already linked prefix changes nothing. For N ≤ 2
// there is nothing to link.
func (d *DB[T]) Link(ctx context.Context, prefix []uint64) error {
	if err := d.validatePrefix(prefix); err != nil {
		return err
	}
	return d.LinkUnchecked(ctx, prefix)
}

// LinkUnchecked links prefix without validating it. A prefix shorter than
// N-1 links only the pairs it covers.
func (d *DB[T]) LinkUnchecked(ctx context.Context, prefix []uint64) (err error) {
	done, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	start := time.Now()
	issued, grown := 0, false
	defer func() {
		d.metrics.RecordLink(issued, time.Since(start), err)
		d.logger.LogLink(ctx, prefix, issued, grown, err)
	}()

	n := len(d.axes)
	if n <= 2 || len(prefix) < 2 {
		return nil
	}

	pairs := min(len(prefix)-1, n-2)
	x := prefix[0]
	for i := 1; i <= pairs; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := keylib.Path(d.dir, i)
		y, ym := prefix[i], d.axes[i]

		k, err := keylib.Get(d.fs, path, x, y, ym)
		if err != nil {
			return err
		}
		if k == 0 {
			var onIssue func(uint64) error
			if i == n-2 {
				onIssue = func(key uint64) error {
					g, err := d.growRows(key)
					grown = g
					return err
				}
			}
			k, err = keylib.Add(d.fs, path, x, y, ym, onIssue)
			if err != nil {
				return err
			}
			issued++
		}
		x = k
	}
	return nil
}

// growRows extends the data file to hold rows 1..rows.
func (d *DB[T]) growRows(rows uint64) (bool, error) {
	row, err := d.rowBytes()
	if err != nil {
		return false, err
	}
	total, err := conv.MulUint64(rows, row)
	if err != nil {
		return false, err
	}
	size, err := conv.Uint64ToInt64(total)
	if err != nil {
		return false, err
	}
	return datafile.GrowTo(d.fs, d.dir, size)
}

// IsLinked reports whether every pair along prefix has a forward key.
// For N ≤ 2 every prefix is linked.
func (d *DB[T]) IsLinked(ctx context.Context, prefix []uint64) (bool, error) {
	if err := d.validatePrefix(prefix); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n := len(d.axes)
	if n <= 2 {
		return true, nil
	}
	x := prefix[0]
	for i := 1; i <= n-2; i++ {
		k, err := keylib.Get(d.fs, keylib.Path(d.dir, i), x, prefix[i], d.axes[i])
		if err != nil || k == 0 {
			return false, err
		}
		x = k
	}
	return true, nil
}

// Write stores v at addr after validating the address and its linkage.
func (d *DB[T]) Write(ctx context.Context, addr []uint64, v T) error {
	if err := d.validateAddress(addr); err != nil {
		return err
	}
	return d.WriteUnchecked(ctx, addr, v)
}

// WriteUnchecked stores v at addr. Coordinates are not range checked, but
// an unlinked prefix still fails with ErrElementsNotLinked.
func (d *DB[T]) WriteUnchecked(ctx context.Context, addr []uint64, v T) error {
	return d.write(ctx, addr, v, nil)
}

// slotLocker locks the cells [slot, slot+n) and returns the unlock func.
type slotLocker func(slot, n uint64) func()

func (d *DB[T]) write(ctx context.Context, addr []uint64, v T, lock slotLocker) (err error) {
	done, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	start := time.Now()
	defer func() { d.metrics.RecordWrite(time.Since(start), err) }()

	slot, err := d.slotOf(addr)
	if err != nil {
		return err
	}
	if lock != nil {
		defer lock(slot, 1)()
	}
	return datafile.Write(d.fs, d.dir, d.codec, slot, v)
}

// Read returns the value at addr after validating the address and its
// linkage. Cells that were never written read as the zero value.
func (d *DB[T]) Read(ctx context.Context, addr []uint64) (T, error) {
	if err := d.validateAddress(addr); err != nil {
		var zero T
		return zero, err
	}
	return d.ReadUnchecked(ctx, addr)
}

// ReadUnchecked returns the value at addr without range checks.
func (d *DB[T]) ReadUnchecked(ctx context.Context, addr []uint64) (T, error) {
	return d.read(ctx, addr, nil)
}

func (d *DB[T]) read(ctx context.Context, addr []uint64, lock slotLocker) (v T, err error) {
	done, err := d.begin(ctx)
	if err != nil {
		return v, err
	}
	defer done()

	start := time.Now()
	defer func() { d.metrics.RecordRead(time.Since(start), err) }()

	slot, err := d.slotOf(addr)
	if err != nil {
		return v, err
	}
	if lock != nil {
		defer lock(slot, 1)()
	}
	return datafile.Read(d.fs, d.dir, d.codec, slot)
}

// ReadStream writes the raw slots of n consecutive cells along the last
// axis, starting at addr, to w. Exactly n·S bytes are written on success;
// cells beyond the end of the data file are zero-filled. Decode the output
// with codec.Unpack or codec.UnpackAll.
func (d *DB[T]) ReadStream(ctx context.Context, w io.Writer, addr []uint64, n uint64) error {
	if err := d.validateStream(addr, n); err != nil {
		return err
	}
	return d.ReadStreamUnchecked(ctx, w, addr, n)
}

// ReadStreamUnchecked is ReadStream without range checks.
func (d *DB[T]) ReadStreamUnchecked(ctx context.Context, w io.Writer, addr []uint64, n uint64) error {
	return d.stream(ctx, w, addr, n, nil)
}

func (d *DB[T]) stream(ctx context.Context, w io.Writer, addr []uint64, n uint64, lock slotLocker) (err error) {
	done, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	start := time.Now()
	defer func() { d.metrics.RecordStream(n, time.Since(start), err) }()

	slot, err := d.slotOf(addr)
	if err != nil {
		return err
	}
	if lock != nil && n > 0 {
		defer lock(slot, n)()
	}
	if d.rc.Burst() > 0 {
		w = resource.NewRateLimitedWriter(ctx, w, d.rc)
	}
	return datafile.Stream(d.fs, d.dir, w, d.codec, slot, n)
}
