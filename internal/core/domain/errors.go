package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMissingAPIKey indicates no provider credential is configured.
	// Surfaced to the caller immediately; never retried.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrDimensionMismatch indicates a query vector whose length differs
	// from the stored embedding length. A programmer or data error; the
	// operation fails and is not retried.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoDocuments indicates ingestion produced zero usable documents.
	ErrNoDocuments = errors.New("no documents could be loaded")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format with no registered
	// text extractor.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmptyQuery indicates a blank query was submitted.
	ErrEmptyQuery = errors.New("empty query")

	// ErrDecompositionParse indicates the completion provider returned
	// subtopics that could not be parsed. Recovered locally by treating
	// the original query as the sole subtopic.
	ErrDecompositionParse = errors.New("malformed subtopic decomposition")
)

// ProviderError wraps a non-2xx response from an embedding or completion
// provider. Ingestion treats it as a per-document failure; the query path
// degrades to the simple path instead of surfacing it.
type ProviderError struct {
	// Provider names the service ("openai", "ollama").
	Provider string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Message is the provider's error message, if any.
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
