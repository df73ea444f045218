// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the asset subsystem can read source assets, publish
// identity manifests and verify that mapped paths exist, against AWS S3 or a
// self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the asset bucket.
//   - MakeBucket: Creates the bucket if needed.
//   - PutObject: Uploads content such as an identity manifest.
//   - GetObject: Streams asset bytes to a loader.
//   - StatObject: Checks that a single mapped path exists.
//   - ListObjects: Lists objects under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
