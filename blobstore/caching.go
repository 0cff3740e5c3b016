package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Downloader is an optional interface remote stores can implement to
// stream a whole blob more efficiently than repeated ReadAt calls
// (e.g. parallel ranged downloads).
type Downloader interface {
	Download(ctx context.Context, name string, w io.WriterAt) (int64, error)
}

// CachingStore fronts a remote Store with a local file cache. A blob is
// downloaded once into the cache directory and served from disk afterwards.
// Blobs are immutable, so no invalidation is needed.
type CachingStore struct {
	remote Store
	local  *LocalStore
	dir    string
}

// NewCachingStore creates a CachingStore caching remote blobs under dir.
func NewCachingStore(remote Store, dir string) *CachingStore {
	return &CachingStore{
		remote: remote,
		local:  NewLocalStore(dir),
		dir:    dir,
	}
}

// Open serves a blob from the cache, downloading it first if missing.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return s.local.Open(ctx, name)
	}
	if err := s.fetch(ctx, name, path); err != nil {
		return nil, err
	}
	return s.local.Open(ctx, name)
}

// Prefetch downloads the given blobs with at most parallel concurrent
// transfers. Blobs already cached are skipped.
func (s *CachingStore) Prefetch(ctx context.Context, names []string, parallel int) error {
	if parallel <= 0 {
		parallel = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, name := range names {
		g.Go(func() error {
			path := filepath.Join(s.dir, name)
			if _, err := os.Stat(path); err == nil {
				return nil
			}
			return s.fetch(gctx, name, path)
		})
	}
	return g.Wait()
}

// fetch downloads a blob into the cache, writing to a temp file and
// renaming so concurrent readers never observe partial content.
func (s *CachingStore) fetch(ctx context.Context, name, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if d, ok := s.remote.(Downloader); ok {
		if _, err := d.Download(ctx, name, tmp); err != nil {
			return fmt.Errorf("blobstore: download %s: %w", name, err)
		}
	} else if err := s.copyFrom(ctx, name, tmp); err != nil {
		return fmt.Errorf("blobstore: download %s: %w", name, err)
	}

	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *CachingStore) copyFrom(ctx context.Context, name string, w io.WriterAt) error {
	b, err := s.remote.Open(ctx, name)
	if err != nil {
		return err
	}
	defer b.Close()

	const chunk = 1 << 20
	buf := make([]byte, chunk)
	size := b.Size()
	for off := int64(0); off < size; off += chunk {
		n := chunk
		if rem := size - off; rem < chunk {
			n = int(rem)
		}
		read, err := b.ReadAt(ctx, buf[:n], off)
		if read != n {
			if err == nil || err == io.EOF {
				err = fmt.Errorf("short read %d of %d bytes", read, n)
			}
			return err
		}
		if _, err := w.WriteAt(buf[:n], off); err != nil {
			return err
		}
	}
	return nil
}
