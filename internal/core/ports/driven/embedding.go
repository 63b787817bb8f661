package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// It is invoked on both the ingestion path (one call per chunk) and the
// query path (one call per query or subtopic).
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// Constant for the lifetime of the service; the vector store relies
	// on every stored embedding having this length.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used by TestConnection before committing to a session.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
