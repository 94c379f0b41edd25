// Package snapshot copies an arraydb database directory to and from a
// blobstore.BlobStore.
//
// A snapshot is a set of blobs under snapshots/{id}/: one blob per database
// file (ax, every key{i}_{i+1}, db) and a manifest.json written last. The
// manifest records the axis capacities and the size and CRC32C checksum of
// every file; a snapshot without a manifest does not exist.
//
//	m, err := snapshot.Export(ctx, "/data/prices", store)
//	...
//	err = snapshot.Import(ctx, store, m.ID, "/data/prices-restored")
//
// Export reads the files as they are. Callers must keep writers away from
// the directory for the duration, for example by holding the database
// behind arraydb.Concurrent and not linking or writing meanwhile.
package snapshot
