package cli

import (
	"context"
	"errors"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/services"
)

// mockAssistant returns a canned answer.
type mockAssistant struct {
	answer  *domain.Answer
	err     error
	pingErr error

	cleared bool
	lastMsg string
}

func (m *mockAssistant) SendMessage(_ context.Context, text string) (*domain.Answer, error) {
	m.lastMsg = text
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAssistant) ClearConversation() { m.cleared = true }

func (m *mockAssistant) TestConnection(context.Context) error { return m.pingErr }

// mockIngestor returns canned document metadata.
type mockIngestor struct {
	metas   []domain.DocumentMeta
	err     error
	lastSet []string
}

func (m *mockIngestor) Load(_ context.Context, documentSet []string) ([]domain.DocumentMeta, error) {
	m.lastSet = documentSet
	if m.err != nil {
		return nil, m.err
	}
	return m.metas, nil
}

// mockIndex reports canned chunk counts.
type mockIndex struct {
	count    int
	bySource map[string]int
	initErr  error
}

func (m *mockIndex) Initialize(context.Context) error { return m.initErr }

func (m *mockIndex) Count() int { return m.count }

func (m *mockIndex) CountBySource() map[string]int { return m.bySource }

// memConfigStore is an in-memory config store for settings tests.
type memConfigStore struct {
	data map[string]any
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{data: make(map[string]any)}
}

func (m *memConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memConfigStore) GetString(key string) string {
	if v, ok := m.data[key].(string); ok {
		return v
	}
	return ""
}

func (m *memConfigStore) GetInt(key string) int {
	if v, ok := m.data[key].(int); ok {
		return v
	}
	return 0
}

func (m *memConfigStore) GetFloat(key string) float64 {
	if v, ok := m.data[key].(float64); ok {
		return v
	}
	return 0
}

func (m *memConfigStore) GetBool(key string) bool {
	if v, ok := m.data[key].(bool); ok {
		return v
	}
	return false
}

func (m *memConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *memConfigStore) Save() error { return nil }

func (m *memConfigStore) Load() error { return nil }

func (m *memConfigStore) Path() string { return "/tmp/test-config.toml" }

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	oldAssistant := assistant
	oldIngestor := ingestor
	oldSettings := settingsService
	oldStats := indexStats
	oldWireErr := wireErr

	assistant = &mockAssistant{
		answer: &domain.Answer{
			Text: "The answer is in the manual.",
			Citations: []domain.Citation{
				{Source: "manual.md", Similarity: 0.92},
			},
		},
	}
	ingestor = &mockIngestor{
		metas: []domain.DocumentMeta{
			{Name: "manual.md", ChunkCount: 4},
		},
	}
	settingsService = services.NewSettingsService(newMemConfigStore())
	indexStats = &mockIndex{count: 4, bySource: map[string]int{"manual.md": 4}}
	wireErr = nil

	return func() {
		assistant = oldAssistant
		ingestor = oldIngestor
		settingsService = oldSettings
		indexStats = oldStats
		wireErr = oldWireErr
	}
}

var errProviderDown = errors.New("provider down")
