package domain

import "time"

// QueryPhase tracks a query through the orchestration state machine.
type QueryPhase string

// Query phases, in order of progression.
const (
	// PhasePlanning covers routing and subtopic decomposition.
	PhasePlanning QueryPhase = "planning"

	// PhaseRetrieving covers embedding and similarity search.
	PhaseRetrieving QueryPhase = "retrieving"

	// PhaseSynthesizing covers the final completion call.
	PhaseSynthesizing QueryPhase = "synthesizing"

	// PhaseComplete indicates the answer is ready.
	PhaseComplete QueryPhase = "complete"
)

// String returns the string representation.
func (p QueryPhase) String() string {
	return string(p)
}

// SubtopicStatus tracks retrieval progress for one subtopic.
type SubtopicStatus string

// Subtopic retrieval states.
const (
	SubtopicPending    SubtopicStatus = "pending"
	SubtopicProcessing SubtopicStatus = "processing"
	SubtopicComplete   SubtopicStatus = "complete"
)

// SubtopicResult holds the retrieval output for one subtopic of a compound
// query. It is ephemeral, per-query state and is never persisted.
type SubtopicResult struct {
	// Subtopic is the focused sub-question text.
	Subtopic string

	// Chunks are the retrieved passages for this subtopic.
	Chunks []ScoredChunk

	// Status is the retrieval state.
	Status SubtopicStatus
}

// Citation records which passage grounded part of an answer.
type Citation struct {
	// Source is the document name the passage came from.
	Source string

	// Similarity is the cosine similarity to the query or subtopic.
	Similarity float64
}

// Answer is the final output of one query turn.
type Answer struct {
	// Text is the generated response.
	Text string

	// Citations lists the consulted passages, best match first.
	Citations []Citation

	// Compound reports whether the multi-subtopic path produced the answer.
	Compound bool

	// Subtopics are the decomposed sub-questions, empty on the simple path.
	Subtopics []string

	// TokensUsed is the completion provider's reported usage, 0 if unknown.
	TokensUsed int

	// Elapsed is the total time from submission to completion.
	Elapsed time.Duration
}

// StatusUpdate is an intermediate reasoning-state notification emitted
// while a query is in flight. The UI layer renders these; the core only
// produces them.
type StatusUpdate struct {
	// Phase is the current orchestration phase.
	Phase QueryPhase

	// Detail is a short human-readable description.
	Detail string

	// Subtopics mirrors per-subtopic retrieval state during PhaseRetrieving.
	Subtopics []SubtopicResult
}
