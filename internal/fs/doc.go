// Package fs provides the filesystem abstraction used by every arraydb file
// family (axis library, key libraries, data file).
//
// The package defines two interfaces:
//
//   - [File]: an open file with positional read/write, truncate and sync
//   - [FileSystem]: open, stat, remove, rename, mkdir and truncate by name
//
// # Implementations
//
//   - [LocalFS]: production implementation backed by the os package
//   - [FaultyFS]: test wrapper that injects write, truncate, sync and close
//     failures per file-name pattern
//
// # Usage
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.OpenFile(dir+"/db", os.O_RDWR, 0o644)
//
// Tests inject a FaultyFS to simulate a crash between data-file growth and
// key issuance:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("/key2_3", fs.Fault{FailWrites: true})
//
// Operations take no context.Context. Local file I/O is not interruptible at
// the syscall level; callers check their context before issuing it.
package fs
