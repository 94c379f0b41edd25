// Package arraydb provides a file-backed, fixed-shape, N-dimensional array
// store.
//
// A database is a directory defined once by its axis capacities
// [m_1, ..., m_N]. Addresses are 1-indexed tuples (x_1, ..., x_N) with
// 1 ≤ x_i ≤ m_i, and every cell holds one value of a type chosen through a
// codec.Codec. Storage for the last-axis row of a prefix (x_1, ..., x_{N-1})
// is allocated only when that prefix is linked, so on-disk size follows the
// populated part of sparse leading axes.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, _ := arraydb.Create(ctx, "./data", codec.NullableF64{}, []uint64{2, 5, 3, 2})
//	_ = db.Link(ctx, []uint64{2, 4, 3})
//	_ = db.Write(ctx, []uint64{2, 4, 3, 1}, codec.Float(-5.6))
//	v, _ := db.Read(ctx, []uint64{2, 4, 3, 1}) // codec.Float(-5.6)
//
//	db, _ = arraydb.Open(ctx, "./data", codec.NullableF64{}) // re-open existing
//
// # Files
//
// A database directory holds:
//
//	ax          axis library: N followed by m_1..m_N, little-endian uint64
//	key{i}_{i+1} key library for axes (i, i+1), one per i in 1..N-2
//	db          data file: packed S-byte cells, S = codec ValueSize
//
// Key library slot 0 counts the forward keys issued so far; the slot for
// (x, y) holds the key issued for it, which is the x coordinate at the next
// pair or, for the last pair, the row number in the data file. Row r
// occupies bytes [(r-1)·m_N·S, r·m_N·S).
//
// # Linking
//
// For N ≥ 3 a cell can only be written once its prefix is linked:
//
//	err := db.Write(ctx, []uint64{1, 1, 1}, 7)
//	var nl *arraydb.ErrElementsNotLinked
//	errors.As(err, &nl) // true until db.Link(ctx, []uint64{1, 1})
//
// Link issues missing forward keys and grows the data file by one row for
// every new last-pair key. The data file is grown first and the key
// library counter written last, so an interrupted link leaves at worst
// unused trailing bytes or an entry above the counter. Nothing is
// journaled; Check reports such states but does not repair them.
//
// For N ≤ 2 no key libraries exist, Link does nothing, and Write extends
// the data file on demand.
//
// # Checked and Unchecked
//
// Link, Write, Read and ReadStream validate address length and ranges
// before touching any file and report *ErrDimensionsOutOfRange or
// *ErrIndexOutOfRange. The *Unchecked variants skip those checks.
//
// # Concurrency
//
// A DB keeps no open files and is safe for concurrent readers. Concurrent
// writers, or writers racing with Link, must use Concurrent, which
// serializes growth and locks cells through a sharded lock table.
// WithProcessLock extends single-writer exclusion to other processes.
//
// # Snapshots
//
// Package snapshot copies a database directory to a blobstore.BlobStore
// (local, S3 or MinIO) and restores it elsewhere. Export copies files as
// they are; run it inside Concurrent.Exclusive to get a consistent image
// while writers are active.
package arraydb
