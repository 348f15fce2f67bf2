package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
)

// Ensure SlotStore implements the interface.
var _ driven.SlotStore = (*SlotStore)(nil)

// SlotStore is an in-memory implementation of driven.SlotStore.
// Contents are lost when the process exits.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSlotStore creates a new in-memory slot store.
func NewSlotStore() *SlotStore {
	return &SlotStore{
		slots: make(map[string][]byte),
	}
}

// Get returns a copy of the payload stored under key.
func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.slots[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data under key.
func (s *SlotStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = append([]byte(nil), data...)
	return nil
}
