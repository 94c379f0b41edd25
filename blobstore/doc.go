// Package blobstore provides the object storage abstraction used to ship
// arraydb snapshots off the local disk.
//
// BlobStore is the interface for reading and writing named blobs (array
// files, snapshot manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on a FileSystem, atomic via rename on Close
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)           // Open for reading
//	    Create(ctx, name) (WritableBlob, error) // Create for streaming writes
//	    Put(ctx, name, data) error              // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blob names always use forward slashes, regardless of platform.
package blobstore
