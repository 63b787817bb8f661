package services

import (
	"context"
	"sync"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// fakeEmbedder returns canned vectors keyed by input text.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	errFor   map[string]error
	pingErr  error
	calls    int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if err, ok := f.errFor[text]; ok {
		return nil, err
	}
	if v, ok := f.vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	return append([]float32(nil), f.fallback...), nil
}

func (f *fakeEmbedder) Dimensions() int { return len(f.fallback) }

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Ping(context.Context) error { return f.pingErr }

func (f *fakeEmbedder) Close() error { return nil }

func (f *fakeEmbedder) embedCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeLLM records calls and returns canned completions.
type fakeLLM struct {
	mu               sync.Mutex
	generateResponse string
	generateErr      error
	chatResult       driven.ChatResult
	chatErr          error
	pingErr          error
	generateCalls    []string
	chatCalls        [][]domain.ChatTurn
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.generateCalls = append(f.generateCalls, prompt)
	f.mu.Unlock()

	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generateResponse, nil
}

func (f *fakeLLM) Chat(_ context.Context, messages []domain.ChatTurn, _ driven.ChatOptions) (driven.ChatResult, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, append([]domain.ChatTurn(nil), messages...))
	f.mu.Unlock()

	if f.chatErr != nil {
		return driven.ChatResult{}, f.chatErr
	}
	return f.chatResult, nil
}

func (f *fakeLLM) ModelName() string { return "fake-llm" }

func (f *fakeLLM) Ping(context.Context) error { return f.pingErr }

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) lastChat() []domain.ChatTurn {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.chatCalls) == 0 {
		return nil
	}
	return f.chatCalls[len(f.chatCalls)-1]
}

// fakeFetcher serves documents from memory.
type fakeFetcher struct {
	manifest    []string
	files       map[string][]byte
	manifestErr error
	fetchErrs   map[string]error
}

func (f *fakeFetcher) Manifest(context.Context) ([]string, error) {
	if f.manifestErr != nil {
		return nil, f.manifestErr
	}
	return f.manifest, nil
}

func (f *fakeFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	if err, ok := f.fetchErrs[name]; ok {
		return nil, err
	}
	data, ok := f.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// fakePromptStore serves fixed templates.
type fakePromptStore struct{}

func (fakePromptStore) Load(name string) (string, error) {
	switch name {
	case driven.PromptDecompose:
		return "Split into subtopics, reply with a JSON array: %s", nil
	case driven.PromptSynthesizeQuick:
		return "Answer briefly using the numbered excerpts.", nil
	case driven.PromptSynthesizeDetailed:
		return "Answer thoroughly using the numbered excerpts.", nil
	default:
		return "", domain.ErrNotFound
	}
}

func (fakePromptStore) Reload() {}

// fakeConfigStore is an in-memory driven.ConfigStore.
type fakeConfigStore struct {
	data map[string]any
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{data: make(map[string]any)}
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeConfigStore) GetString(key string) string {
	if v, ok := f.data[key].(string); ok {
		return v
	}
	return ""
}

func (f *fakeConfigStore) GetInt(key string) int {
	switch v := f.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (f *fakeConfigStore) GetFloat(key string) float64 {
	switch v := f.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (f *fakeConfigStore) GetBool(key string) bool {
	if v, ok := f.data[key].(bool); ok {
		return v
	}
	return false
}

func (f *fakeConfigStore) Set(key string, value any) error {
	f.data[key] = value
	return nil
}

func (f *fakeConfigStore) Save() error { return nil }

func (f *fakeConfigStore) Load() error { return nil }

func (f *fakeConfigStore) Path() string { return "/tmp/fake-config.toml" }
