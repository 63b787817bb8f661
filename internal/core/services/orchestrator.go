package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
	"github.com/docent-ai/docent-cli/internal/logger"
)

// Routing thresholds for the compound query path.
const (
	// compoundMinLength is the minimum query length in characters.
	compoundMinLength = 50

	// compoundMinWords triggers the path for long queries without an
	// explicit comparison signal.
	compoundMinWords = 8

	// compoundMinChunks keeps small stores on the simple path, where one
	// retrieval already covers most of the index.
	compoundMinChunks = 10
)

// compoundSignals mark queries that likely span several subtopics.
var compoundSignals = []string{
	"compare", "difference", "vs", "versus", "which", "how", "what are", "explain",
}

// Generation tuning per call site.
var (
	decomposeOptions = driven.GenerateOptions{MaxTokens: 512, Temperature: 0.2}
	synthesisOptions = driven.ChatOptions{Temperature: 0.3}
)

// QueryOrchestrator routes a query down the simple or compound retrieval
// path and synthesises a grounded answer.
type QueryOrchestrator struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	index    VectorIndex
	prompts  driven.PromptStore

	maxResults int
	mode       domain.ResponseMode
}

// OrchestratorConfig tunes retrieval and synthesis.
type OrchestratorConfig struct {
	// MaxResults is the total retrieval budget per query.
	MaxResults int

	// Mode selects quick or detailed synthesis.
	Mode domain.ResponseMode
}

// NewQueryOrchestrator creates a new query orchestrator.
func NewQueryOrchestrator(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	index VectorIndex,
	prompts driven.PromptStore,
	cfg OrchestratorConfig,
) *QueryOrchestrator {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = domain.DefaultAppSettings().Retrieval.MaxResults
	}
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.ModeDetailed
	}

	return &QueryOrchestrator{
		embedder:   embedder,
		llm:        llm,
		index:      index,
		prompts:    prompts,
		maxResults: cfg.MaxResults,
		mode:       cfg.Mode,
	}
}

// Execute answers one query, emitting status updates as it progresses.
// A compound-path failure after planning degrades to the simple path
// rather than surfacing the error.
func (o *QueryOrchestrator) Execute(
	ctx context.Context,
	query string,
	history []domain.ChatTurn,
	notify driving.StatusFunc,
) (*domain.Answer, error) {
	start := time.Now()
	emit(notify, domain.StatusUpdate{Phase: domain.PhasePlanning, Detail: "analysing query"})

	if o.isCompound(query) {
		answer, err := o.compoundPath(ctx, query, history, notify)
		if err == nil {
			answer.Elapsed = time.Since(start)
			emit(notify, domain.StatusUpdate{Phase: domain.PhaseComplete})
			return answer, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("Compound path failed, falling back to simple retrieval: %v", err)
	}

	answer, err := o.simplePath(ctx, query, history, notify)
	if err != nil {
		return nil, err
	}
	answer.Elapsed = time.Since(start)
	emit(notify, domain.StatusUpdate{Phase: domain.PhaseComplete})
	return answer, nil
}

// isCompound decides whether the query warrants subtopic decomposition.
// Short queries, single-fact questions and small stores stay simple.
func (o *QueryOrchestrator) isCompound(query string) bool {
	if len(query) <= compoundMinLength {
		return false
	}
	if o.index.Count() <= compoundMinChunks {
		return false
	}

	lower := strings.ToLower(query)
	for _, signal := range compoundSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return len(strings.Fields(query)) > compoundMinWords
}

// simplePath embeds the query, retrieves once and synthesises.
func (o *QueryOrchestrator) simplePath(
	ctx context.Context,
	query string,
	history []domain.ChatTurn,
	notify driving.StatusFunc,
) (*domain.Answer, error) {
	emit(notify, domain.StatusUpdate{Phase: domain.PhaseRetrieving, Detail: "searching documents"})

	embedding, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := o.index.Search(embedding, o.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	emit(notify, domain.StatusUpdate{Phase: domain.PhaseSynthesizing, Detail: "composing answer"})
	answer, err := o.synthesize(ctx, query, chunks, history)
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// compoundPath decomposes the query into subtopics, retrieves them in
// parallel, merges the results and synthesises a single answer.
func (o *QueryOrchestrator) compoundPath(
	ctx context.Context,
	query string,
	history []domain.ChatTurn,
	notify driving.StatusFunc,
) (*domain.Answer, error) {
	prompt, err := decomposePrompt(o.prompts, query)
	if err != nil {
		return nil, err
	}

	raw, err := o.llm.Generate(ctx, prompt, decomposeOptions)
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	subtopics, err := parseSubtopics(raw)
	if err != nil {
		// Unparseable decomposition degrades to a single subtopic rather
		// than abandoning the compound path.
		logger.Debug("Subtopic parse failed: %v", err)
		subtopics = []string{query}
	}
	logger.Debug("Decomposed into %d subtopics", len(subtopics))

	results, err := o.retrieveSubtopics(ctx, subtopics, notify)
	if err != nil {
		return nil, err
	}

	merged := mergeResults(results, o.maxResults)

	emit(notify, domain.StatusUpdate{
		Phase:     domain.PhaseSynthesizing,
		Detail:    "composing answer",
		Subtopics: results,
	})

	// The synthesis context keeps chunks grouped under their subtopic so
	// the model sees which excerpts answer which part of the question.
	answer, err := o.complete(ctx, buildCompoundUserMessage(query, results, merged), merged, history)
	if err != nil {
		return nil, err
	}
	answer.Compound = true
	answer.Subtopics = subtopics
	return answer, nil
}

// retrieveSubtopics embeds and searches every subtopic concurrently.
// Each subtopic gets an equal share of the retrieval budget, plus one to
// soften rounding.
func (o *QueryOrchestrator) retrieveSubtopics(
	ctx context.Context,
	subtopics []string,
	notify driving.StatusFunc,
) ([]domain.SubtopicResult, error) {
	perSubtopic := (o.maxResults+len(subtopics)-1)/len(subtopics) + 1

	results := make([]domain.SubtopicResult, len(subtopics))
	for i, sub := range subtopics {
		results[i] = domain.SubtopicResult{Subtopic: sub, Status: domain.SubtopicPending}
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	snapshot := func() []domain.SubtopicResult {
		out := make([]domain.SubtopicResult, len(results))
		copy(out, results)
		return out
	}

	mu.Lock()
	emit(notify, domain.StatusUpdate{
		Phase:     domain.PhaseRetrieving,
		Detail:    "searching subtopics",
		Subtopics: snapshot(),
	})
	mu.Unlock()

	for i := range subtopics {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			mu.Lock()
			results[i].Status = domain.SubtopicProcessing
			emit(notify, domain.StatusUpdate{Phase: domain.PhaseRetrieving, Subtopics: snapshot()})
			mu.Unlock()

			chunks, err := o.retrieveOne(ctx, subtopics[i], perSubtopic)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A failed subtopic contributes no chunks; the remaining
				// subtopics still cover the query.
				logger.Warn("Subtopic %q retrieval failed: %v", subtopics[i], err)
			} else {
				results[i].Chunks = chunks
			}
			results[i].Status = domain.SubtopicComplete
			emit(notify, domain.StatusUpdate{Phase: domain.PhaseRetrieving, Subtopics: snapshot()})
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *QueryOrchestrator) retrieveOne(ctx context.Context, query string, limit int) ([]domain.ScoredChunk, error) {
	embedding, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return o.index.Search(embedding, limit)
}

// synthesize runs the completion call with a flat excerpt context.
func (o *QueryOrchestrator) synthesize(
	ctx context.Context,
	query string,
	chunks []domain.ScoredChunk,
	history []domain.ChatTurn,
) (*domain.Answer, error) {
	return o.complete(ctx, buildUserMessage(query, chunks), chunks, history)
}

// complete runs the completion call and assembles the answer. Citations
// follow the excerpt numbering embedded in the user message.
func (o *QueryOrchestrator) complete(
	ctx context.Context,
	userMessage string,
	chunks []domain.ScoredChunk,
	history []domain.ChatTurn,
) (*domain.Answer, error) {
	system, err := synthesisSystemPrompt(o.prompts, o.mode)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChatTurn, 0, len(history)+2)
	messages = append(messages, domain.ChatTurn{Role: domain.RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, domain.ChatTurn{
		Role:    domain.RoleUser,
		Content: userMessage,
	})

	result, err := o.llm.Chat(ctx, messages, synthesisOptions)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil, errors.New("synthesize: empty completion")
	}

	return &domain.Answer{
		Text:       result.Content,
		Citations:  citationsFor(chunks),
		TokensUsed: result.TokensUsed,
	}, nil
}

// mergeResults combines per-subtopic retrievals into one ranked list.
// Chunks retrieved for several subtopics keep their best similarity.
func mergeResults(results []domain.SubtopicResult, limit int) []domain.ScoredChunk {
	best := make(map[string]domain.ScoredChunk)
	order := make([]string, 0)

	for _, r := range results {
		for _, sc := range r.Chunks {
			existing, seen := best[sc.Chunk.ID]
			if !seen {
				order = append(order, sc.Chunk.ID)
				best[sc.Chunk.ID] = sc
				continue
			}
			if sc.Similarity > existing.Similarity {
				best[sc.Chunk.ID] = sc
			}
		}
	}

	merged := make([]domain.ScoredChunk, 0, len(order))
	for _, id := range order {
		merged = append(merged, best[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// citationsFor converts retrieved chunks into answer citations, best
// match first.
func citationsFor(chunks []domain.ScoredChunk) []domain.Citation {
	citations := make([]domain.Citation, len(chunks))
	for i, sc := range chunks {
		citations[i] = domain.Citation{Source: sc.Chunk.Source, Similarity: sc.Similarity}
	}
	return citations
}

func emit(notify driving.StatusFunc, update domain.StatusUpdate) {
	if notify != nil {
		notify(update)
	}
}
