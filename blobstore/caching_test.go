package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCachingStoreDownloadsOnce(t *testing.T) {
	remote := NewMemoryStore()
	payload := bytes.Repeat([]byte{0xAB}, 3<<20) // spans several copy chunks
	remote.Put("blocks/feat0.bin", payload)

	store := NewCachingStore(remote, t.TempDir())
	ctx := context.Background()

	data, err := ReadAll(ctx, store, "blocks/feat0.bin")
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Equal(t, 1, remote.OpenCount("blocks/feat0.bin"))

	// Second open is served from the cache.
	data, err = ReadAll(ctx, store, "blocks/feat0.bin")
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Equal(t, 1, remote.OpenCount("blocks/feat0.bin"))
}

func TestCachingStorePrefetch(t *testing.T) {
	remote := NewMemoryStore()
	var names []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("feat%d.bin", i)
		remote.Put(name, []byte{byte(i)})
		names = append(names, name)
	}

	dir := t.TempDir()
	store := NewCachingStore(remote, dir)

	require.NoError(t, store.Prefetch(context.Background(), names, 4))

	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}

func TestCachingStoreRemoteMissing(t *testing.T) {
	store := NewCachingStore(NewMemoryStore(), t.TempDir())
	_, err := store.Open(context.Background(), "nope.bin")
	require.ErrorIs(t, err, ErrNotFound)
}
