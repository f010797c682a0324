package storage

import (
	"context"
	"sync"

	"github.com/careslot/backend/internal/domain/providers"
)

// MemoryAdapter implements the SnapshotStore interface with an in-process map.
// It backs tests and single-process deployments that need no durability.
type MemoryAdapter struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryAdapter creates a new in-memory snapshot store
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		snapshots: make(map[string][]byte),
	}
}

// Load retrieves the snapshot stored under key
func (a *MemoryAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.snapshots[key]
	if !ok {
		return nil, providers.ErrSnapshotNotFound
	}

	// Copy so callers can't mutate the stored snapshot
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save overwrites the snapshot stored under key
func (a *MemoryAdapter) Save(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshots[key] = stored
	return nil
}

// Delete removes the snapshot stored under key
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.snapshots, key)
	return nil
}
