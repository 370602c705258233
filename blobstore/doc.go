// Package blobstore abstracts where point cloud artifacts live.
//
// Store is a minimal streaming interface (open, create, list): PLY
// parsing is strictly sequential, so stores hand out plain readers and
// writers rather than random-access handles. Implementations must be
// safe for concurrent use; the batch runner opens many artifacts in
// parallel.
//
// # Built-in implementations
//
//   - LocalStore: local filesystem rooted at a directory
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with streaming multipart uploads
//   - minio.Store: MinIO and other S3-compatible object stores
package blobstore
