// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("arrays/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	m, err := snapshot.Export(ctx, "/data/prices", store)
//
// # Features
//
//   - Range reads for streaming downloads
//   - Multipart uploads for large data files
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
