package driven

import (
	"context"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

// LLMService provides text generation for query decomposition and answer
// synthesis.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Ollama (local models)
//   - Compatible inference servers
type LLMService interface {
	// Generate produces a text completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation and returns the assistant
	// reply together with reported token usage (0 when unknown).
	Chat(ctx context.Context, messages []domain.ChatTurn, opts ChatOptions) (ChatResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatResult is the outcome of a chat completion call.
type ChatResult struct {
	// Content is the assistant reply text.
	Content string

	// TokensUsed is the provider's reported total token usage.
	TokensUsed int
}
