package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptDecompose splits a compound query into focused subtopics.
	// The template expects a %s placeholder for the query.
	PromptDecompose = "decompose"

	// PromptSynthesizeQuick is the system prompt for quick answers.
	PromptSynthesizeQuick = "synthesize_quick"

	// PromptSynthesizeDetailed is the system prompt for detailed answers.
	PromptSynthesizeDetailed = "synthesize_detailed"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts injected after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service uses hardcoded defaults.
	SetPromptStore(store PromptStore)
}
