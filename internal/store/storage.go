package store

// Package store models the browser-side state containers (vault selection,
// UI flags, boot gating) as explicitly-scoped stores with a read/write/
// subscribe interface and a declared persistence policy. Stores are injected
// into their consumers; nothing here is a package-level singleton.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage is one tier of client persistence, keyed by an opaque namespace
// string. Durable storage survives restarts; session storage lives only as
// long as its owner. Concurrent writers to a shared key race with
// last-write-wins semantics; there is no merge logic.
type Storage interface {
	// Load returns the stored value and whether the key exists.
	Load(key string) ([]byte, bool, error)
	// Store writes the value, replacing any previous one.
	Store(key string, value []byte) error
	// Remove deletes the key; removing an absent key is a no-op.
	Remove(key string) error
}

// FileStorage is the durable tier: one JSON file per namespace key.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a durable storage tier rooted at dir.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) path(key string) string {
	// Namespace keys are opaque strings; keep them filesystem-safe.
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

func (f *FileStorage) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

func (f *FileStorage) Store(key string, value []byte) error {
	if err := os.WriteFile(f.path(key), value, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *FileStorage) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// MemoryStorage is the session tier: values live only as long as the
// instance, mirroring per-tab session storage.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStorage creates a session-lifetime storage tier.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStorage) Store(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
