// Package s3 implements blobstore.Store for Amazon S3.
//
// Reads stream the object body; writes stream through a multipart
// uploader, so arbitrarily large clouds never need to be buffered in
// memory. Uploads are atomic from a reader's perspective: S3 publishes
// the object only when the multipart upload completes.
package s3
