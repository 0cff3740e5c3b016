package blobstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/featio/datafeed/internal/mmap"
)

// LocalStore implements Store using the local file system. Every Open
// returns a fresh file handle, so concurrent readers never share seek
// state.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
// An empty root resolves blob names as given.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Open opens a blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &localBlob{f: f, size: fi.Size()}, nil
}

type localBlob struct {
	f    *os.File
	size int64
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.f.ReadAt(p, off)
}

func (b *localBlob) Size() int64 { return b.size }

func (b *localBlob) Close() error { return b.f.Close() }

// MmapStore implements Store by memory-mapping local files. Preferred for
// large binary files read at shuffled offsets.
type MmapStore struct {
	root string
}

// NewMmapStore creates a MmapStore rooted at the given directory.
func NewMmapStore(root string) *MmapStore {
	return &MmapStore{root: root}
}

// Open maps a blob into memory.
func (s *MmapStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}
	return &mmapBlob{m: m}, nil
}

type mmapBlob struct {
	m *mmap.File
}

func (b *mmapBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *mmapBlob) Size() int64 { return b.m.Size() }

func (b *mmapBlob) Close() error { return b.m.Close() }
