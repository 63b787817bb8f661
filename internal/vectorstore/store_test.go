package vectorstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent-cli/internal/adapters/driven/snapshot/memory"
	"github.com/docent-ai/docent-cli/internal/core/domain"
)

func testChunk(id, source string, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:        id,
		Content:   "content of " + id,
		Embedding: embedding,
		Source:    source,
		CreatedAt: time.Now(),
	}
}

func TestAddChunk_OverwritesByID(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
	require.NoError(t, s.AddChunk(testChunk("c2", "doc1", []float32{0, 1})))

	updated := testChunk("c1", "doc1", []float32{0.5, 0.5})
	updated.Content = "updated"
	require.NoError(t, s.AddChunk(updated))

	assert.Equal(t, 2, s.Count())
}

func TestAddChunk_DimensionMismatch(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
	err := s.AddChunk(testChunk("c2", "doc1", []float32{1, 0, 0}))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_ExactMatch(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))

	results, err := s.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))

	_, err := s.Search([]float32{1, 0, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_EmptyStore(t *testing.T) {
	s := New(nil)

	// An empty store accepts any query dimensionality and returns nothing.
	results, err := s.Search([]float32{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ThresholdAndLimit(t *testing.T) {
	s := New(nil)

	// Vectors at decreasing similarity to the query [1, 0].
	require.NoError(t, s.AddChunk(testChunk("exact", "doc1", []float32{1, 0})))
	require.NoError(t, s.AddChunk(testChunk("close", "doc1", []float32{0.9, 0.2})))
	require.NoError(t, s.AddChunk(testChunk("mid", "doc1", []float32{0.7, 0.7})))
	require.NoError(t, s.AddChunk(testChunk("orthogonal", "doc1", []float32{0, 1})))
	require.NoError(t, s.AddChunk(testChunk("opposite", "doc1", []float32{-1, 0})))

	results, err := s.Search([]float32{1, 0}, 10)
	require.NoError(t, err)

	// mid scores ~0.707 (above threshold); orthogonal 0 and opposite -1 are out.
	require.Len(t, results, 3)
	for i, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, DefaultThreshold)
		assert.Greater(t, r.Similarity, noiseFloor)
		assert.LessOrEqual(t, r.Similarity, 1.0+1e-9)
		if i > 0 {
			assert.LessOrEqual(t, r.Similarity, results[i-1].Similarity,
				"results must be sorted by non-increasing similarity")
		}
	}
	assert.Equal(t, "exact", results[0].Chunk.ID)

	// The limit caps the result count.
	capped, err := s.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	s := New(nil)

	// Identical vectors: every chunk ties at similarity 1.
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("c%d", i)
		require.NoError(t, s.AddChunk(testChunk(id, "doc1", []float32{1, 0})))
	}

	results, err := s.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("c%d", i), r.Chunk.ID)
	}
}

func TestSearch_ZeroVectorScoresZero(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddChunk(testChunk("zero", "doc1", []float32{0, 0})))

	results, err := s.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results, "degenerate zero vectors score 0, below the noise floor")
}

func TestRemoveChunksBySource(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AddChunk(testChunk("a1", "doc1", []float32{1, 0})))
	require.NoError(t, s.AddChunk(testChunk("a2", "doc1", []float32{0, 1})))
	require.NoError(t, s.AddChunk(testChunk("b1", "doc2", []float32{1, 1})))

	removed := s.RemoveChunksBySource("doc1")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Count())

	counts := s.CountBySource()
	assert.Equal(t, map[string]int{"doc2": 1}, counts)

	// Surviving chunks are still searchable after reindexing.
	results, err := s.Search([]float32{1, 1}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b1", results[0].Chunk.ID)
}

func TestFinalizeBatch_RoundTrip(t *testing.T) {
	ctx := context.Background()
	snapshots := memory.NewStore()

	s := New(snapshots)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
	require.NoError(t, s.AddChunk(testChunk("c2", "doc2", []float32{0, 1})))

	fp := domain.Fingerprint([]string{"doc1", "doc2"})
	s.FinalizeBatch(ctx, fp)

	// A fresh store over the same snapshot store restores the chunk set.
	restored := New(snapshots)
	require.NoError(t, restored.Initialize(ctx))

	assert.Equal(t, 2, restored.Count())
	results, err := restored.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "content of c1", results[0].Chunk.Content)

	needs, _ := restored.CheckIfUpdateNeeded([]string{"doc1", "doc2"})
	assert.False(t, needs)
}

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	snapshots := memory.NewStore()
	require.NoError(t, snapshots.Save(ctx, &domain.Snapshot{
		Chunks:        []domain.Chunk{testChunk("c1", "doc1", []float32{1, 0})},
		Fingerprint:   "fp",
		SavedAt:       time.Now(),
		SchemaVersion: domain.SnapshotSchemaVersion,
	}))

	s := New(snapshots)
	require.NoError(t, s.Initialize(ctx))
	require.Equal(t, 1, s.Count())

	// A second Initialize must not re-restore or duplicate.
	require.NoError(t, s.AddChunk(testChunk("c2", "doc1", []float32{0, 1})))
	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, 2, s.Count())
}

func TestInitialize_DiscardsStaleSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("schema version mismatch", func(t *testing.T) {
		snapshots := memory.NewStore()
		require.NoError(t, snapshots.Save(ctx, &domain.Snapshot{
			Chunks:        []domain.Chunk{testChunk("c1", "doc1", []float32{1, 0})},
			Fingerprint:   "fp",
			SavedAt:       time.Now(),
			SchemaVersion: "0",
		}))

		s := New(snapshots)
		require.NoError(t, s.Initialize(ctx))
		assert.Equal(t, 0, s.Count())

		// The stale blob is erased so the next session skips it cheaply.
		_, err := snapshots.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("older than freshness window", func(t *testing.T) {
		snapshots := memory.NewStore()
		require.NoError(t, snapshots.Save(ctx, &domain.Snapshot{
			Chunks:        []domain.Chunk{testChunk("c1", "doc1", []float32{1, 0})},
			Fingerprint:   "fp",
			SavedAt:       time.Now().Add(-domain.SnapshotMaxAge - time.Hour),
			SchemaVersion: domain.SnapshotSchemaVersion,
		}))

		s := New(snapshots)
		require.NoError(t, s.Initialize(ctx))
		assert.Equal(t, 0, s.Count())
	})
}

func TestCheckIfUpdateNeeded(t *testing.T) {
	ctx := context.Background()
	docs := []string{"doc1", "doc2"}

	t.Run("empty store needs update", func(t *testing.T) {
		s := New(memory.NewStore())
		needs, fp := s.CheckIfUpdateNeeded(docs)
		assert.True(t, needs)
		assert.Equal(t, domain.Fingerprint(docs), fp)
	})

	t.Run("idempotent after finalize", func(t *testing.T) {
		s := New(memory.NewStore())
		require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
		_, fp := s.CheckIfUpdateNeeded(docs)
		s.FinalizeBatch(ctx, fp)

		needs, _ := s.CheckIfUpdateNeeded(docs)
		assert.False(t, needs)
		needs, _ = s.CheckIfUpdateNeeded(docs)
		assert.False(t, needs, "repeated checks with no mutation must agree")
	})

	t.Run("fingerprint change needs update", func(t *testing.T) {
		s := New(memory.NewStore())
		require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
		_, fp := s.CheckIfUpdateNeeded(docs)
		s.FinalizeBatch(ctx, fp)

		needs, _ := s.CheckIfUpdateNeeded([]string{"doc1", "doc3"})
		assert.True(t, needs)
	})

	t.Run("aged snapshot needs update despite matching fingerprint", func(t *testing.T) {
		current := time.Now()
		s := New(memory.NewStore(), WithClock(func() time.Time { return current }))
		require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
		_, fp := s.CheckIfUpdateNeeded(docs)
		s.FinalizeBatch(ctx, fp)

		current = current.Add(domain.RefreshWindow + time.Minute)
		needs, _ := s.CheckIfUpdateNeeded(docs)
		assert.True(t, needs)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	snapshots := memory.NewStore()

	s := New(snapshots)
	require.NoError(t, s.AddChunk(testChunk("c1", "doc1", []float32{1, 0})))
	s.FinalizeBatch(ctx, "fp")

	s.Clear(ctx)
	assert.Equal(t, 0, s.Count())

	_, err := snapshots.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	needs, _ := s.CheckIfUpdateNeeded([]string{"doc1"})
	assert.True(t, needs)
}

func TestWithThreshold(t *testing.T) {
	s := New(nil, WithThreshold(0.99))
	require.NoError(t, s.AddChunk(testChunk("close", "doc1", []float32{0.9, 0.2})))

	results, err := s.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results, "0.97 similarity is below the raised threshold")
}
