package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ZSTD decoder pool for efficiency
var zstdDecoderPool sync.Pool

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// CompressedStore wraps a Store and transparently decompresses blobs whose
// name ends in ".zst" (zstd) or ".lz4" (lz4 frame format). Random access
// into a compressed stream is not possible, so the whole blob is
// decompressed into memory on Open; memory stays bounded by one data block
// per open handle. Other blobs pass through untouched.
type CompressedStore struct {
	inner Store
}

// NewCompressedStore creates a CompressedStore wrapping inner.
func NewCompressedStore(inner Store) *CompressedStore {
	return &CompressedStore{inner: inner}
}

// Open opens a blob, decompressing it if the name indicates compression.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		raw, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		data, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("blobstore: decompress %s: %w", name, err)
		}
		return bytesBlob(data), nil

	case strings.HasSuffix(name, ".lz4"):
		raw, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(lz4.NewReader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("blobstore: decompress %s: %w", name, err)
		}
		return bytesBlob(data), nil

	default:
		return s.inner.Open(ctx, name)
	}
}
