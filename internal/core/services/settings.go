package services

import (
	"fmt"
	"os"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyChunkTargetSize  = "chunking.target_size"
	keyChunkMinLength   = "chunking.min_length"
	keyChunkOverlap     = "chunking.overlap"
	keyRetrThreshold    = "retrieval.threshold"
	keyRetrMaxResults   = "retrieval.max_results"
	keyRetrHistory      = "retrieval.history_window"
	keyRetrMode         = "retrieval.mode"
	keyDocsSource       = "documents.source"
	keyDocsBaseURL      = "documents.base_url"
	keyDocsDir          = "documents.dir"
)

// envOpenAIKey is consulted when no API key is stored in config.
const envOpenAIKey = "OPENAI_API_KEY"

// SettingsService manages application settings backed by a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling gaps with defaults.
// API keys fall back to the environment when not stored in config.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.resolveAPIKey(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.resolveAPIKey(keyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			TargetSize: s.getInt(keyChunkTargetSize, defaults.Chunking.TargetSize),
			MinLength:  s.getInt(keyChunkMinLength, defaults.Chunking.MinLength),
			Overlap:    s.configStore.GetInt(keyChunkOverlap),
		},
		Retrieval: domain.RetrievalSettings{
			Threshold:     s.getFloat(keyRetrThreshold, defaults.Retrieval.Threshold),
			MaxResults:    s.getInt(keyRetrMaxResults, defaults.Retrieval.MaxResults),
			HistoryWindow: s.getInt(keyRetrHistory, defaults.Retrieval.HistoryWindow),
			Mode:          s.getMode(keyRetrMode, defaults.Retrieval.Mode),
		},
		Documents: domain.DocumentSettings{
			Source:  s.getString(keyDocsSource, defaults.Documents.Source),
			BaseURL: s.configStore.GetString(keyDocsBaseURL),
			Dir:     s.configStore.GetString(keyDocsDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkTargetSize, settings.Chunking.TargetSize},
		{keyChunkMinLength, settings.Chunking.MinLength},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyRetrThreshold, settings.Retrieval.Threshold},
		{keyRetrMaxResults, settings.Retrieval.MaxResults},
		{keyRetrHistory, settings.Retrieval.HistoryWindow},
		{keyRetrMode, settings.Retrieval.Mode.String()},
		{keyDocsSource, settings.Documents.Source},
		{keyDocsBaseURL, settings.Documents.BaseURL},
		{keyDocsDir, settings.Documents.Dir},
	}

	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// Credentials are only written when present so an env-provided key is
	// never copied into the config file by accident.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != os.Getenv(envOpenAIKey) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != os.Getenv(envOpenAIKey) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// SetResponseMode updates the response mode.
func (s *SettingsService) SetResponseMode(mode domain.ResponseMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid response mode: %s", mode)
	}
	return s.configStore.Set(keyRetrMode, mode.String())
}

// SetAPIKey stores the provider credential for both AI services.
func (s *SettingsService) SetAPIKey(apiKey string) error {
	if err := s.configStore.Set(keyEmbedAPIKey, apiKey); err != nil {
		return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
	}
	if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
		return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
	}
	return nil
}

// Validate checks that the configured providers are usable: a cloud
// provider without a credential is the most common misconfiguration.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Embedding.Provider.RequiresAPIKey() && settings.Embedding.APIKey == "" {
		return fmt.Errorf("embedding provider %s: %w", settings.Embedding.Provider, domain.ErrMissingAPIKey)
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("llm provider %s: %w", settings.LLM.Provider, domain.ErrMissingAPIKey)
	}
	if !settings.Retrieval.Mode.IsValid() {
		return fmt.Errorf("invalid response mode: %s", settings.Retrieval.Mode)
	}
	return nil
}

// Path returns the backing config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getMode(key string, defaultVal domain.ResponseMode) domain.ResponseMode {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	mode := domain.ResponseMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) resolveAPIKey(key string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return os.Getenv(envOpenAIKey)
}
