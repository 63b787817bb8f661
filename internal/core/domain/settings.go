package domain

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API (or a compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// RequiresAPIKey returns true if the provider needs a credential.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// LLMSettings configures the completion provider.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// ChunkingSettings configures the text chunker.
type ChunkingSettings struct {
	// TargetSize is the soft maximum chunk length in characters.
	TargetSize int

	// MinLength is the noise floor; shorter fragments are dropped.
	MinLength int

	// Overlap is reserved. The boundary chunker emits disjoint chunks and
	// does not consume this value; it exists so configurations written for
	// a sliding-window chunker remain loadable.
	Overlap int
}

// RetrievalSettings configures similarity search and orchestration.
type RetrievalSettings struct {
	// Threshold is the minimum cosine similarity for a relevant chunk.
	Threshold float64

	// MaxResults is the total retrieval budget per query.
	MaxResults int

	// HistoryWindow is how many recent turns accompany synthesis.
	HistoryWindow int

	// Mode selects quick or detailed responses.
	Mode ResponseMode
}

// DocumentSettings configures the document source.
type DocumentSettings struct {
	// Source selects the fetch adapter ("http" or "filesystem").
	Source string

	// BaseURL is the root the manifest and files resolve against.
	BaseURL string

	// Dir is the local directory for the filesystem source.
	Dir string
}

// AppSettings aggregates all runtime configuration.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Documents DocumentSettings
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Chunking: ChunkingSettings{
			TargetSize: 2000,
			MinLength:  50,
		},
		Retrieval: RetrievalSettings{
			Threshold:     0.7,
			MaxResults:    8,
			HistoryWindow: 6,
			Mode:          ModeDetailed,
		},
		Documents: DocumentSettings{
			Source: "filesystem",
		},
	}
}
