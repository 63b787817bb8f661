package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docent-ai/docent-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/docent-ai/docent-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docent-ai/docent-cli/internal/adapters/driven/embedding/openai"
	"github.com/docent-ai/docent-cli/internal/adapters/driven/fetch/filesystem"
	"github.com/docent-ai/docent-cli/internal/adapters/driven/fetch/httpfetch"
	ollamallm "github.com/docent-ai/docent-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docent-ai/docent-cli/internal/adapters/driven/llm/openai"
	"github.com/docent-ai/docent-cli/internal/adapters/driven/snapshot/sqlite"
	"github.com/docent-ai/docent-cli/internal/chunker"
	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
	"github.com/docent-ai/docent-cli/internal/core/services"
	"github.com/docent-ai/docent-cli/internal/extractors"
	"github.com/docent-ai/docent-cli/internal/extractors/docx"
	"github.com/docent-ai/docent-cli/internal/extractors/markdown"
	"github.com/docent-ai/docent-cli/internal/extractors/pdf"
	"github.com/docent-ai/docent-cli/internal/extractors/plaintext"
	"github.com/docent-ai/docent-cli/internal/logger"
	"github.com/docent-ai/docent-cli/internal/vectorstore"
)

// configDirName is the per-user application directory under $HOME.
const configDirName = ".docent"

// initServices builds the service graph from persisted settings. Settings
// always come up so the config command works on a fresh install; the AI
// pipeline is best-effort and commands that need it report wireErr.
func initServices() {
	configDir, err := ensureConfigDir()
	if err != nil {
		wireErr = err
		return
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		wireErr = fmt.Errorf("load config: %w", err)
		return
	}
	settingsService = services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		wireErr = fmt.Errorf("read settings: %w", err)
		return
	}

	wireErr = buildPipeline(configDir, settings)
}

// ensureConfigDir resolves and creates ~/.docent.
func ensureConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// buildPipeline assembles the ingestion and query services around the
// configured providers.
func buildPipeline(configDir string, settings *domain.AppSettings) error {
	embedder, err := buildEmbedder(settings.Embedding)
	if err != nil {
		return err
	}
	llm, err := buildLLM(settings.LLM)
	if err != nil {
		return err
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	var snapshots driven.SnapshotStore
	if store, err := sqlite.NewStore(configDir); err != nil {
		// The index still works without persistence, it just rebuilds
		// every session.
		logger.Warn("Snapshot store unavailable, continuing without persistence: %v", err)
	} else {
		snapshots = store
	}

	index := vectorstore.New(snapshots, vectorstore.WithThreshold(settings.Retrieval.Threshold))
	indexStats = index

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())

	fetcher, err := buildFetcher(configDir, settings.Documents, registry)
	if err != nil {
		return err
	}

	split := chunker.New(
		chunker.WithTargetSize(settings.Chunking.TargetSize),
		chunker.WithMinLength(settings.Chunking.MinLength),
	)

	ingestor = services.NewIngestService(
		fetcher, registry, split, embedder, index,
		services.WithIngestStatusFunc(func(status driving.IngestStatus) {
			if ingestNotify != nil {
				ingestNotify(status)
			}
		}),
	)

	orchestrator := services.NewQueryOrchestrator(embedder, llm, index, prompts, services.OrchestratorConfig{
		MaxResults: settings.Retrieval.MaxResults,
		Mode:       settings.Retrieval.Mode,
	})
	assistant = services.NewAssistantService(
		orchestrator, embedder, llm,
		services.WithHistoryWindow(settings.Retrieval.HistoryWindow),
		services.WithStatusFunc(func(update domain.StatusUpdate) {
			if queryNotify != nil {
				queryNotify(update)
			}
		}),
	)

	return nil
}

func buildEmbedder(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		return svc, nil
	}
}

func buildLLM(cfg domain.LLMSettings) (driven.LLMService, error) {
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("completion provider: %w", err)
		}
		return svc, nil
	}
}

func buildFetcher(configDir string, cfg domain.DocumentSettings, registry *extractors.Registry) (driven.DocumentFetcher, error) {
	if cfg.Source == "http" {
		fetcher, err := httpfetch.NewFetcher(httpfetch.Config{BaseURL: cfg.BaseURL})
		if err != nil {
			return nil, fmt.Errorf("document source: %w", err)
		}
		return fetcher, nil
	}

	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(configDir, "documents")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create document directory: %w", err)
	}
	fetcher, err := filesystem.NewFetcher(dir, registry.SupportedExtensions())
	if err != nil {
		return nil, fmt.Errorf("document source: %w", err)
	}
	return fetcher, nil
}
