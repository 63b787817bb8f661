// Package memory provides an in-memory SnapshotStore implementation.
// Used in tests and when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store holds at most one snapshot in memory.
type Store struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
}

// NewStore creates an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{}
}

// Load returns the stored snapshot or domain.ErrNotFound.
func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, domain.ErrNotFound
	}
	// Return a copy so callers cannot mutate the stored snapshot.
	copied := *s.snapshot
	copied.Chunks = append([]domain.Chunk(nil), s.snapshot.Chunks...)
	return &copied, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *snapshot
	copied.Chunks = append([]domain.Chunk(nil), snapshot.Chunks...)
	s.snapshot = &copied
	return nil
}

// Delete removes the stored snapshot. Deleting a missing snapshot is a no-op.
func (s *Store) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
