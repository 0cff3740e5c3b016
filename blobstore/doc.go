// Package blobstore abstracts access to the immutable blobs a dataset is
// made of: binary feature/label files, their description files and the
// manifest files listing them.
//
// Backends:
//   - LocalStore: plain files, one open/pread/close per access
//   - MmapStore: memory-mapped local files
//   - MemoryStore: in-memory, for tests
//   - CompressedStore: transparent zstd/lz4 decompression wrapper
//   - CachingStore: local cache in front of a remote store
//   - s3.Store, minio.Store: object storage backends (subpackages)
package blobstore
