package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreReadAt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feat.bin"), []byte("hello world"), 0o644))

	store := NewLocalStore(dir)
	ctx := context.Background()

	b, err := store.Open(ctx, "feat.bin")
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, int64(11), b.Size())

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))
}

func TestLocalStoreNotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "missing.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMmapStoreReadAt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feat.bin"), []byte("0123456789"), 0o644))

	store := NewMmapStore(dir)
	ctx := context.Background()

	b, err := store.Open(ctx, "feat.bin")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 4)
	n, err := b.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "3456", string(buf))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	store.Put("a.bin", []byte("abcdef"))
	ctx := context.Background()

	data, err := ReadAll(ctx, store, "a.bin")
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(data))
	require.Equal(t, 1, store.OpenCount("a.bin"))

	_, err = store.Open(ctx, "b.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReadRange(t *testing.T) {
	store := NewMemoryStore()
	store.Put("a.bin", []byte("abcdefgh"))
	ctx := context.Background()

	data, err := ReadRange(ctx, store, "a.bin", 2, 3)
	require.NoError(t, err)
	require.Equal(t, "cde", string(data))

	// Declared range runs past the end of the blob.
	_, err = ReadRange(ctx, store, "a.bin", 6, 4)
	require.Error(t, err)
}
