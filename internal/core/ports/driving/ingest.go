package driving

import (
	"context"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

// IngestState is the ingestion pipeline state machine.
type IngestState string

// Pipeline states: CHECKING -> (UP_TO_DATE | REBUILDING) -> READY | FAILED.
const (
	IngestChecking   IngestState = "checking"
	IngestUpToDate   IngestState = "up_to_date"
	IngestRebuilding IngestState = "rebuilding"
	IngestReady      IngestState = "ready"
	IngestFailed     IngestState = "failed"
)

// IngestStatus reports pipeline progress to observers.
type IngestStatus struct {
	// State is the current pipeline state.
	State IngestState

	// Document names the document being processed, when applicable.
	Document string

	// Processed counts documents finished so far.
	Processed int

	// Failed counts documents that could not be ingested.
	Failed int
}

// Ingestor loads the declared document set into the vector store.
type Ingestor interface {
	// Load ingests the documents named by the manifest, re-embedding only
	// when the set fingerprint or snapshot staleness demands it. Returns
	// metadata for every document in manifest order; documents that could
	// not be ingested carry a non-empty Error.
	Load(ctx context.Context, documentSet []string) ([]domain.DocumentMeta, error)
}
