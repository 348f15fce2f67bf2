// Package jsonfile provides a file-based implementation of driven.SlotStore.
//
// Each slot is stored as <dir>/<key>.json and replaced atomically through a
// temp file and rename. Watch reports writes made by other processes.
package jsonfile

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SlotStore = (*Store)(nil)

const slotExt = ".json"

// Store keeps slots as files in a directory.
type Store struct {
	dir string

	mu      sync.Mutex
	written map[string][sha256.Size]byte // key -> hash of our last write
}

// NewStore creates a store in dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating slot directory: %w", err)
	}
	return &Store{dir: dir, written: make(map[string][sha256.Size]byte)}, nil
}

// Dir returns the slot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// Get returns the payload stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return data, nil
}

// Put atomically replaces the payload stored under key.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, fileName(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("replacing slot %s: %w", key, err)
	}

	s.written[key] = sha256.Sum256(data)
	return nil
}

// ownWrite reports whether data is exactly what this store last wrote.
func (s *Store) ownWrite(key string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.written[key]
	return ok && last == sha256.Sum256(data)
}

// fileName maps a slot key to a safe file name.
func fileName(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return r.Replace(key) + slotExt
}

// keyFromFile reverses fileName for keys without replaced characters.
func keyFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, slotExt) {
		return "", false
	}
	return strings.TrimSuffix(name, slotExt), true
}
