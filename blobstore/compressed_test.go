package blobstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestCompressedStoreZstd(t *testing.T) {
	payload := bytes.Repeat([]byte("frame-data-"), 1000)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(payload, nil)
	require.NoError(t, enc.Close())

	inner := NewMemoryStore()
	inner.Put("block0.bin.zst", compressed)

	store := NewCompressedStore(inner)
	ctx := context.Background()

	b, err := store.Open(ctx, "block0.bin.zst")
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, int64(len(payload)), b.Size())

	buf := make([]byte, 10)
	_, err = b.ReadAt(ctx, buf, 11)
	require.NoError(t, err)
	require.Equal(t, payload[11:21], buf)
}

func TestCompressedStoreLZ4(t *testing.T) {
	payload := bytes.Repeat([]byte("label-data-"), 1000)

	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	inner := NewMemoryStore()
	inner.Put("block0.bin.lz4", buf.Bytes())

	store := NewCompressedStore(inner)

	data, err := ReadAll(context.Background(), store, "block0.bin.lz4")
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestCompressedStorePassThrough(t *testing.T) {
	inner := NewMemoryStore()
	inner.Put("plain.bin", []byte("raw"))

	store := NewCompressedStore(inner)

	data, err := ReadAll(context.Background(), store, "plain.bin")
	require.NoError(t, err)
	require.Equal(t, "raw", string(data))
}

func TestCompressedStoreCorrupt(t *testing.T) {
	inner := NewMemoryStore()
	inner.Put("bad.bin.zst", []byte("not zstd at all"))

	store := NewCompressedStore(inner)

	_, err := store.Open(context.Background(), "bad.bin.zst")
	require.Error(t, err)
}
