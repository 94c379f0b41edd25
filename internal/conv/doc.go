// Package conv provides checked integer conversions for file offsets.
//
// Slot indices and axis capacities are uint64 throughout arraydb, while the
// io.ReaderAt/io.WriterAt and truncate APIs take int64 offsets. Every
// conversion that crosses that boundary goes through this package so that an
// out-of-range address surfaces as an error instead of a wrapped offset.
package conv
