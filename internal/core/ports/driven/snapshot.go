package driven

import (
	"context"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

// SnapshotStore persists the vector store's snapshot as a single keyed
// blob in a local store. Persistence is best-effort: the in-memory store
// remains authoritative for the session, so callers log and swallow
// failures from Save and Delete.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or domain.ErrNotFound when no
	// snapshot exists.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save writes the snapshot, replacing any previous one.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Delete erases the persisted snapshot. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context) error

	// Close releases resources.
	Close() error
}
