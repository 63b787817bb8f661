package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
	"github.com/docent-ai/docent-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// VectorIndex is the slice of the vector store the services consume.
type VectorIndex interface {
	Initialize(ctx context.Context) error
	AddChunk(chunk domain.Chunk) error
	Search(queryEmbedding []float32, limit int) ([]domain.ScoredChunk, error)
	FinalizeBatch(ctx context.Context, fingerprint string)
	Clear(ctx context.Context)
	CheckIfUpdateNeeded(documentSet []string) (bool, string)
	Count() int
	CountBySource() map[string]int
}

// TextSplitter cuts extracted text into chunks.
type TextSplitter interface {
	Split(text string) []string
}

// Default pipeline tuning.
const (
	// DefaultIngestConcurrency bounds how many documents are processed at
	// once. Embedding calls are serialised by the rate limiter regardless.
	DefaultIngestConcurrency = 4

	// DefaultEmbedRate is the embedding request pacing in calls per second.
	DefaultEmbedRate = 5
)

// IngestService drives the document ingestion pipeline:
// fetch -> extract -> chunk -> embed -> index -> snapshot.
type IngestService struct {
	fetcher    driven.DocumentFetcher
	extractors driven.ExtractorRegistry
	splitter   TextSplitter
	embedder   driven.EmbeddingService
	index      VectorIndex

	limiter     *rate.Limiter
	concurrency int
	notify      func(driving.IngestStatus)
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithIngestStatusFunc registers a progress observer. Updates are
// delivered inline; the callback must be fast.
func WithIngestStatusFunc(fn func(driving.IngestStatus)) IngestOption {
	return func(s *IngestService) {
		s.notify = fn
	}
}

// WithEmbedRate overrides the embedding request pacing (calls per second).
func WithEmbedRate(callsPerSecond float64) IngestOption {
	return func(s *IngestService) {
		if callsPerSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
		}
	}
}

// WithIngestConcurrency overrides the per-document worker bound.
func WithIngestConcurrency(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	fetcher driven.DocumentFetcher,
	extractors driven.ExtractorRegistry,
	splitter TextSplitter,
	embedder driven.EmbeddingService,
	index VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		fetcher:     fetcher,
		extractors:  extractors,
		splitter:    splitter,
		embedder:    embedder,
		index:       index,
		limiter:     rate.NewLimiter(rate.Limit(DefaultEmbedRate), 1),
		concurrency: DefaultIngestConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load ingests the named document set. When documentSet is empty the
// fetcher's manifest defines the set. The index is rebuilt only when the
// set fingerprint or snapshot staleness demands it.
func (s *IngestService) Load(ctx context.Context, documentSet []string) ([]domain.DocumentMeta, error) {
	s.emit(driving.IngestStatus{State: driving.IngestChecking})

	if len(documentSet) == 0 {
		manifest, err := s.fetcher.Manifest(ctx)
		if err != nil {
			s.emit(driving.IngestStatus{State: driving.IngestFailed})
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		documentSet = manifest
	}
	if len(documentSet) == 0 {
		s.emit(driving.IngestStatus{State: driving.IngestFailed})
		return nil, domain.ErrNoDocuments
	}

	if err := s.index.Initialize(ctx); err != nil {
		s.emit(driving.IngestStatus{State: driving.IngestFailed})
		return nil, fmt.Errorf("initialise index: %w", err)
	}

	needed, fingerprint := s.index.CheckIfUpdateNeeded(documentSet)
	if !needed {
		logger.Info("Index up to date (%d chunks, %d documents)", s.index.Count(), len(documentSet))
		s.emit(driving.IngestStatus{State: driving.IngestUpToDate, Processed: len(documentSet)})
		return s.metasFromIndex(documentSet), nil
	}

	logger.Info("Rebuilding index for %d documents", len(documentSet))
	s.emit(driving.IngestStatus{State: driving.IngestRebuilding})
	s.index.Clear(ctx)

	metas, failed, err := s.processAll(ctx, documentSet)
	if err != nil {
		s.emit(driving.IngestStatus{State: driving.IngestFailed})
		return nil, err
	}

	succeeded := len(documentSet) - failed
	if succeeded == 0 {
		s.emit(driving.IngestStatus{State: driving.IngestFailed, Failed: failed})
		return nil, domain.ErrNoDocuments
	}

	s.index.FinalizeBatch(ctx, fingerprint)
	logger.Info("Ingestion complete: %d documents, %d failed, %d chunks",
		succeeded, failed, s.index.Count())
	s.emit(driving.IngestStatus{State: driving.IngestReady, Processed: succeeded, Failed: failed})

	return metas, nil
}

// processAll runs the per-document pipeline with bounded concurrency.
// Individual document failures are recorded, not fatal; only context
// cancellation aborts the batch.
func (s *IngestService) processAll(ctx context.Context, documentSet []string) ([]domain.DocumentMeta, int, error) {
	metas := make([]domain.DocumentMeta, len(documentSet))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
		failed    int
	)
	sem := make(chan struct{}, s.concurrency)

	for i, name := range documentSet {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			chunkCount, byteSize, err := s.processDocument(ctx, name)

			mu.Lock()
			defer mu.Unlock()
			metas[i] = domain.DocumentMeta{Name: name, ChunkCount: chunkCount}
			if err != nil {
				logger.Warn("Failed to ingest %s: %v", name, err)
				metas[i].Error = err.Error()
				failed++
			} else {
				metas[i].ByteSize = byteSize
				metas[i].LoadedAt = time.Now()
				processed++
			}
			s.emit(driving.IngestStatus{
				State:     driving.IngestRebuilding,
				Document:  name,
				Processed: processed,
				Failed:    failed,
			})
		}(i, name)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return metas, failed, nil
}

// processDocument fetches, extracts, chunks and embeds one document.
// Returns the number of chunks indexed and the raw document size.
func (s *IngestService) processDocument(ctx context.Context, name string) (int, int, error) {
	data, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch: %w", err)
	}

	text, err := s.extractors.Extract(ctx, name, data)
	if err != nil {
		return 0, 0, fmt.Errorf("extract: %w", err)
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return 0, 0, fmt.Errorf("no usable content")
	}
	logger.Debug("Chunked %s into %d pieces", name, len(chunks))

	for i, content := range chunks {
		// Rate-pace embedding calls across all workers.
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, 0, err
		}

		embedding, err := s.embedder.Embed(ctx, content)
		if err != nil {
			return 0, 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}

		chunk := domain.Chunk{
			ID:         uuid.NewString(),
			Content:    content,
			Embedding:  embedding,
			Source:     name,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		}
		if err := s.index.AddChunk(chunk); err != nil {
			return 0, 0, fmt.Errorf("index chunk %d: %w", i, err)
		}
	}

	return len(chunks), len(data), nil
}

// metasFromIndex reconstructs document metadata from the live index when
// no rebuild was required.
func (s *IngestService) metasFromIndex(documentSet []string) []domain.DocumentMeta {
	counts := s.index.CountBySource()
	metas := make([]domain.DocumentMeta, len(documentSet))
	for i, name := range documentSet {
		metas[i] = domain.DocumentMeta{Name: name, ChunkCount: counts[name]}
	}
	return metas
}

func (s *IngestService) emit(status driving.IngestStatus) {
	if s.notify != nil {
		s.notify(status)
	}
}
