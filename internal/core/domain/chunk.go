package domain

import "time"

// SnapshotSchemaVersion identifies the on-disk snapshot layout. Bump it
// when the chunk or snapshot shape changes so stale snapshots are
// discarded instead of misread.
const SnapshotSchemaVersion = "1"

const (
	// SnapshotMaxAge is how long a persisted snapshot stays restorable.
	SnapshotMaxAge = 7 * 24 * time.Hour

	// RefreshWindow is how long an index is trusted before the document
	// set is re-checked against the source.
	RefreshWindow = 24 * time.Hour
)

// Chunk is a contiguous slice of a document together with its embedding.
type Chunk struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
	Source     string    `json:"source"`
	ChunkIndex int       `json:"chunk_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredChunk pairs a chunk with its similarity to a query embedding.
type ScoredChunk struct {
	Chunk      Chunk
	Similarity float64
}

// DocumentMeta summarises the ingestion outcome for a single document.
// Derived from the index, not authoritative; ByteSize and LoadedAt are
// zero when no rebuild ran this session.
type DocumentMeta struct {
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
	ByteSize   int       `json:"byte_size,omitempty"`
	LoadedAt   time.Time `json:"loaded_at,omitzero"`
	Error      string    `json:"error,omitempty"`
}

// Snapshot is the persisted form of an indexed document set.
type Snapshot struct {
	SchemaVersion string    `json:"schema_version"`
	Fingerprint   string    `json:"fingerprint"`
	SavedAt       time.Time `json:"saved_at"`
	Chunks        []Chunk   `json:"chunks"`
}

// Valid reports whether the snapshot can be restored: the schema version
// must match and the snapshot must be no older than SnapshotMaxAge.
func (s *Snapshot) Valid(now time.Time) bool {
	if s.SchemaVersion != SnapshotSchemaVersion {
		return false
	}
	return now.Sub(s.SavedAt) <= SnapshotMaxAge
}
