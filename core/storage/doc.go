// Package storage provides an abstraction layer for the report archive.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the verifier needs: archiving finalized verification reports as
// JSON objects and reading them back. This abstraction supports both AWS S3
// and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the archive bucket.
//   - MakeBucket: Creates the bucket if needed.
//   - PutObject: Uploads a report (with size and options).
//   - GetObject: Retrieves a report as a stream.
//   - ListObjects: Lists archived reports (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "verification-reports")
package storage
