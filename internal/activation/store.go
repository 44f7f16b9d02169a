// Package activation holds the process-wide flag that gates the generation
// endpoints.
package activation

import (
	"context"
	"sync/atomic"
)

// Store is the shared activation state cell. Writes are last-write-wins;
// readers always observe one of the two states.
type Store interface {
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
	IsActive(ctx context.Context) (bool, error)
}

// MemoryStore keeps the flag in process memory. It starts inactive.
type MemoryStore struct {
	active atomic.Bool
}

// NewMemoryStore returns an inactive in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Activate(ctx context.Context) error {
	s.active.Store(true)
	return nil
}

func (s *MemoryStore) Deactivate(ctx context.Context) error {
	s.active.Store(false)
	return nil
}

func (s *MemoryStore) IsActive(ctx context.Context) (bool, error) {
	return s.active.Load(), nil
}
