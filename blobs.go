package scratchcard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Blobs is named-blob storage, the only persistence primitive the store
// needs. Get returns (nil, nil) when the key has never been set.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryBlobs keeps blobs in process memory. Useful for tests and for
// session-only runs.
type MemoryBlobs struct {
	mu sync.Mutex
	m  map[string][]byte
}

// NewMemoryBlobs returns an empty in-memory blob store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{m: make(map[string][]byte)}
}

// Get implements Blobs.
func (b *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set implements Blobs.
func (b *MemoryBlobs) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = append([]byte(nil), value...)
	return nil
}

// FileBlobs stores each blob as <dir>/<key>.json. Writes go through a
// temporary file and a rename so a crash never leaves a torn blob.
type FileBlobs struct {
	dir string
	mu  sync.Mutex
}

// NewFileBlobs returns a file-backed blob store rooted at dir. The directory
// is created on first write.
func NewFileBlobs(dir string) *FileBlobs {
	return &FileBlobs{dir: dir}
}

// Dir returns the root directory.
func (b *FileBlobs) Dir() string {
	return b.dir
}

func (b *FileBlobs) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("scratchcard: invalid blob key %q", key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

// Get implements Blobs.
func (b *FileBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scratchcard: read %s: %w", p, err)
	}
	return data, nil
}

// Set implements Blobs.
func (b *FileBlobs) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.path(key)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("scratchcard: mkdir %s: %w", b.dir, err)
	}
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("scratchcard: create temp: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("scratchcard: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("scratchcard: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("scratchcard: rename %s: %w", p, err)
	}
	return nil
}
