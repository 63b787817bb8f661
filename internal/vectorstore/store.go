// Package vectorstore provides the in-memory vector index with snapshot
// persistence and staleness tracking.
package vectorstore

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
	"github.com/docent-ai/docent-cli/internal/logger"
)

// DefaultThreshold is the minimum cosine similarity for a relevant result.
const DefaultThreshold = 0.7

// noiseFloor is the hard lower bound below which results are never
// returned, regardless of the configured threshold.
const noiseFloor = 0.1

// snapshotSizeWarnBytes is the soft snapshot size ceiling. Typical
// key-value stores start misbehaving around 4MB per entry, so crossing it
// is logged but not enforced.
const snapshotSizeWarnBytes = 4 << 20

// Store is the in-memory vector store. All chunk data is held in memory
// for the lifetime of the process; the SnapshotStore only provides a
// best-effort warm start across sessions.
type Store struct {
	mu        sync.RWMutex
	chunks    []domain.Chunk
	byID      map[string]int
	threshold float64
	now       func() time.Time

	snapshots driven.SnapshotStore

	initialized bool

	// persistedFingerprint and persistedAt mirror the last snapshot known
	// to exist, whether restored or written by FinalizeBatch.
	persistedFingerprint string
	persistedAt          time.Time
	hasSnapshot          bool
}

// Option configures the store.
type Option func(*Store)

// WithThreshold sets the minimum similarity for search results.
func WithThreshold(threshold float64) Option {
	return func(s *Store) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithClock overrides the time source. Useful for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a vector store backed by the given snapshot store.
// The snapshot store may be nil, in which case persistence is disabled
// and every session starts empty.
func New(snapshots driven.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		byID:      make(map[string]int),
		threshold: DefaultThreshold,
		now:       time.Now,
		snapshots: snapshots,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the persisted snapshot into memory if it passes the
// validity check (schema version match, within the freshness window).
// Invalid or unreadable snapshots are discarded and the store starts
// empty. Initialize is idempotent; repeated calls are no-ops.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true

	if s.snapshots == nil {
		return nil
	}

	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		// Persistence failures are never fatal: memory is authoritative.
		logger.Debug("No snapshot restored: %v", err)
		return nil
	}

	if !snapshot.Valid(s.now()) {
		logger.Info("Discarding stale snapshot (saved %s, schema %q)",
			snapshot.SavedAt.Format(time.RFC3339), snapshot.SchemaVersion)
		if err := s.snapshots.Delete(ctx); err != nil {
			logger.Debug("Failed to delete stale snapshot: %v", err)
		}
		return nil
	}

	s.chunks = append([]domain.Chunk(nil), snapshot.Chunks...)
	s.byID = make(map[string]int, len(s.chunks))
	for i, c := range s.chunks {
		s.byID[c.ID] = i
	}
	s.persistedFingerprint = snapshot.Fingerprint
	s.persistedAt = snapshot.SavedAt
	s.hasSnapshot = true

	logger.Info("Restored %d chunks from snapshot (fingerprint %.12s)",
		len(s.chunks), snapshot.Fingerprint)
	return nil
}

// AddChunk inserts a chunk, overwriting any existing chunk with the same
// ID in place. The embedding length must match the chunks already stored.
func (s *Store) AddChunk(chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) > 0 && len(chunk.Embedding) != len(s.chunks[0].Embedding) {
		return domain.ErrDimensionMismatch
	}

	if i, ok := s.byID[chunk.ID]; ok {
		s.chunks[i] = chunk
		return nil
	}
	s.byID[chunk.ID] = len(s.chunks)
	s.chunks = append(s.chunks, chunk)
	return nil
}

// RemoveChunksBySource removes every chunk whose Source equals the given
// id and returns how many were removed.
func (s *Store) RemoveChunksBySource(source string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	removed := 0
	for _, c := range s.chunks {
		if c.Source == source {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	if removed == 0 {
		return 0
	}

	s.chunks = kept
	s.byID = make(map[string]int, len(s.chunks))
	for i, c := range s.chunks {
		s.byID[c.ID] = i
	}
	return removed
}

// Search computes cosine similarity between the query vector and every
// stored embedding, keeps results at or above the configured threshold and
// strictly above the noise floor, and returns at most limit entries sorted
// by descending similarity. Ties keep insertion order.
func (s *Store) Search(queryEmbedding []float32, limit int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		return nil, nil
	}
	if len(queryEmbedding) != len(s.chunks[0].Embedding) {
		return nil, domain.ErrDimensionMismatch
	}

	queryNorm := norm(queryEmbedding)
	results := make([]domain.ScoredChunk, 0, limit)
	for _, c := range s.chunks {
		sim := cosine(queryEmbedding, c.Embedding, queryNorm)
		if sim < s.threshold || sim <= noiseFloor {
			continue
		}
		results = append(results, domain.ScoredChunk{Chunk: c, Similarity: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FinalizeBatch persists the current in-memory chunk set tagged with the
// batch fingerprint. Persistence is best-effort: failures are logged and
// swallowed because memory remains authoritative for the session.
func (s *Store) FinalizeBatch(ctx context.Context, fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &domain.Snapshot{
		Chunks:        append([]domain.Chunk(nil), s.chunks...),
		Fingerprint:   fingerprint,
		SavedAt:       s.now(),
		SchemaVersion: domain.SnapshotSchemaVersion,
	}

	if encoded, err := json.Marshal(snapshot); err == nil && len(encoded) > snapshotSizeWarnBytes {
		logger.Warn("Snapshot is %d bytes; local stores may reject entries this large", len(encoded))
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			logger.Warn("Failed to persist snapshot: %v", err)
			return
		}
	}
	s.persistedFingerprint = fingerprint
	s.persistedAt = snapshot.SavedAt
	s.hasSnapshot = true
}

// Clear empties the in-memory store and erases the persisted snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = nil
	s.byID = make(map[string]int)
	s.persistedFingerprint = ""
	s.persistedAt = time.Time{}
	s.hasSnapshot = false

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx); err != nil {
			logger.Debug("Failed to delete snapshot: %v", err)
		}
	}
}

// CheckIfUpdateNeeded reports whether ingestion must re-run for the given
// document set, and returns the computed set fingerprint for reuse by the
// caller. Re-ingestion is needed when the store is empty, no snapshot was
// ever persisted, the fingerprint changed, or the snapshot is older than
// the refresh window even with an unchanged fingerprint.
func (s *Store) CheckIfUpdateNeeded(documentSet []string) (bool, string) {
	fingerprint := domain.Fingerprint(documentSet)

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case len(s.chunks) == 0:
		return true, fingerprint
	case !s.hasSnapshot:
		return true, fingerprint
	case s.persistedFingerprint != fingerprint:
		return true, fingerprint
	case s.now().Sub(s.persistedAt) > domain.RefreshWindow:
		return true, fingerprint
	default:
		return false, fingerprint
	}
}

// Count returns the number of stored chunks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// CountBySource returns the number of chunks per source document.
func (s *Store) CountBySource() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, c := range s.chunks {
		counts[c.Source]++
	}
	return counts
}

// Dimensions returns the embedding length of the stored chunks, or 0 when
// the store is empty.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.chunks) == 0 {
		return 0
	}
	return len(s.chunks[0].Embedding)
}

// cosine computes dot(a,b) / (|a|*|b|), taking the query norm precomputed.
// Degenerate zero vectors score 0 instead of dividing by zero. Lengths
// must already be equal; Search validates once per call.
func cosine(a, b []float32, normA float64) float64 {
	if normA == 0 {
		return 0
	}
	normB := norm(b)
	if normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func norm(v []float32) float64 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	return math.Sqrt(sum)
}
