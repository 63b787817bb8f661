package driven

import "context"

// TextExtractor extracts plain text from one document format.
// Extractors are selected by a registry keyed on file extension, keeping
// the ingestion pipeline extension-agnostic.
type TextExtractor interface {
	// Extensions returns the lowercase file extensions this extractor
	// handles, including the leading dot (e.g., ".pdf").
	Extensions() []string

	// Extract converts raw document bytes to plain text.
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
type ExtractorRegistry interface {
	// Register adds an extractor for its declared extensions.
	// Later registrations win on extension conflicts.
	Register(extractor TextExtractor)

	// Extract picks the extractor for the document's extension and runs it.
	// Returns domain.ErrUnsupportedType when no extractor matches.
	Extract(ctx context.Context, name string, data []byte) (string, error)
}
