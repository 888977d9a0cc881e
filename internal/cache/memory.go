package cache

import (
	"context"
	"sync"

	"github.com/abdulachik/dashboard/internal/dashboard"
)

// MemoryStore keeps the entry in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	entry *dashboard.Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Backend returns "memory".
func (m *MemoryStore) Backend() string {
	return BackendMemory
}

// Load returns a copy of the stored entry.
func (m *MemoryStore) Load(ctx context.Context) (*dashboard.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.entry == nil {
		return nil, ErrMiss
	}
	e := *m.entry
	return &e, nil
}

// Save replaces the stored entry.
func (m *MemoryStore) Save(ctx context.Context, entry dashboard.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entry = &entry
	return nil
}

// Clear drops the stored entry.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entry = nil
	return nil
}

// Close drops the stored entry.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entry = nil
	return nil
}
