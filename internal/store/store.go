// Package store provides the durable string-keyed storage backing the
// storefront. Each key holds one JSON document; the storefront uses exactly
// two keys (catalog and cart).
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested key has no stored value.
var ErrNotFound = errors.New("key not found")

// KV defines the persistent key-value operations used by the storefront.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// FileStore implements KV with one file per key under a data directory.
// Writes go through a temp file and rename, so a crash mid-write never
// leaves a torn payload behind.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ KV = (*FileStore)(nil)

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the stored value for key, or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read key %q", key)
	}
	return data, nil
}

// Set durably stores value under key, replacing any previous value.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return errors.Wrapf(err, "write key %q", key)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "commit key %q", key)
	}
	return nil
}

// Delete removes key from the store. Deleting an absent key is a no-op.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete key %q", key)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps a storage key to a safe file name component.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, key)
}

// MemStore implements KV in memory. Used by tests and ephemeral sessions.
type MemStore struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ KV = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string][]byte)}
}

// Get returns the stored value for key, or ErrNotFound.
func (s *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key.
func (s *MemStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.m[key] = v
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)
	return nil
}
