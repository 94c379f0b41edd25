package arraydb

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/arraydb/internal/conv"
	"github.com/hupe1980/arraydb/internal/datafile"
	"github.com/hupe1980/arraydb/internal/keylib"
)

// KeyLibraryReport describes one key library.
type KeyLibraryReport struct {
	Pair    int    // library for axes (Pair, Pair+1)
	Counter uint64 // last key issued, from slot 0
	Entries uint64 // non-zero entry slots
	Size    int64

	// Duplicates are keys held by more than one entry.
	Duplicates []uint64
	// Orphans are keys above Counter, left by an interrupted issue.
	Orphans []uint64
	// Gaps counts keys in 1..Counter that no entry holds.
	Gaps uint64
	// StrayEntries counts entries whose row lies beyond the keys issued by
	// the previous library (or beyond m_1 for the first library).
	StrayEntries uint64
}

// DataReport describes the data file.
type DataReport struct {
	ExpectedSize int64 // for N ≥ 3; the allowed maximum for N ≤ 2
	ActualSize   int64
}

// CheckReport is the result of Check.
type CheckReport struct {
	KeyLibraries []KeyLibraryReport
	Data         DataReport
	rowsLinked   bool
}

// OK reports whether no problem was found. Trailing bytes in the data file
// left by an interrupted link are harmless and not a problem.
func (r *CheckReport) OK() bool { return len(r.Problems()) == 0 }

// Problems describes every inconsistency found.
func (r *CheckReport) Problems() []string {
	var out []string
	for _, kl := range r.KeyLibraries {
		name := keylib.FileName(kl.Pair)
		if len(kl.Duplicates) > 0 {
			out = append(out, fmt.Sprintf("%s: keys issued more than once: %v", name, kl.Duplicates))
		}
		if len(kl.Orphans) > 0 {
			out = append(out, fmt.Sprintf("%s: keys above counter %d: %v", name, kl.Counter, kl.Orphans))
		}
		if kl.Gaps > 0 {
			out = append(out, fmt.Sprintf("%s: %d issued keys have no entry", name, kl.Gaps))
		}
		if kl.StrayEntries > 0 {
			out = append(out, fmt.Sprintf("%s: %d entries reference rows never issued", name, kl.StrayEntries))
		}
	}
	if r.rowsLinked && r.Data.ActualSize < r.Data.ExpectedSize {
		out = append(out, fmt.Sprintf("%s: %d bytes, linked rows need %d", datafile.FileName, r.Data.ActualSize, r.Data.ExpectedSize))
	}
	if !r.rowsLinked && r.Data.ActualSize > r.Data.ExpectedSize {
		out = append(out, fmt.Sprintf("%s: %d bytes exceeds shape maximum %d", datafile.FileName, r.Data.ActualSize, r.Data.ExpectedSize))
	}
	return out
}

// Check verifies the key libraries and the data file against each other.
// It only reads; nothing is repaired.
func (d *DB[T]) Check(ctx context.Context) (report *CheckReport, err error) {
	defer func() { d.logger.LogCheck(ctx, report, err) }()

	done, err := d.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	report = &CheckReport{}
	n := len(d.axes)

	// rows is the number of valid x values for the next library.
	rows := d.axes[0]
	for i := 1; i <= n-2; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kl, err := d.checkKeyLibrary(i, rows)
		if err != nil {
			return nil, err
		}
		report.KeyLibraries = append(report.KeyLibraries, kl)
		rows = kl.Counter
	}

	actual, err := datafile.Size(d.fs, d.dir)
	if err != nil {
		return nil, err
	}
	report.Data.ActualSize = actual

	cells := rows
	if n >= 2 {
		report.rowsLinked = n >= 3
		cells, err = conv.MulUint64(rows, d.axes[n-1])
		if err != nil {
			return nil, err
		}
	}
	expected, err := conv.ByteOffset(cells, d.codec.ValueSize())
	if err != nil {
		return nil, err
	}
	report.Data.ExpectedSize = expected
	return report, nil
}

func (d *DB[T]) checkKeyLibrary(i int, rows uint64) (KeyLibraryReport, error) {
	kl := KeyLibraryReport{Pair: i}
	ym := d.axes[i]

	seen := roaring64.New()
	dups := roaring64.New()

	counter, size, err := keylib.Scan(d.fs, keylib.Path(d.dir, i), func(e keylib.Entry) error {
		kl.Entries++
		if x := (e.Slot-1)/ym + 1; x > rows {
			kl.StrayEntries++
		}
		if !seen.CheckedAdd(e.Key) {
			dups.Add(e.Key)
		}
		return nil
	})
	if err != nil {
		return kl, err
	}
	kl.Counter = counter
	kl.Size = size
	kl.Duplicates = dups.ToArray()

	above := seen.Clone()
	above.RemoveRange(0, counter+1)
	kl.Orphans = above.ToArray()

	if counter > 0 {
		missing := roaring64.New()
		missing.AddRange(1, counter+1)
		missing.AndNot(seen)
		kl.Gaps = missing.GetCardinality()
	}
	return kl, nil
}
