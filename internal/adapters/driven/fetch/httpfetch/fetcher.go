// Package httpfetch provides a document fetcher backed by a static HTTP
// document server. The server exposes a manifest.json listing the document
// set and serves each document at its manifest name.
package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultManifestPath = "manifest.json"
)

// Config holds configuration for the HTTP document fetcher.
type Config struct {
	// BaseURL is the document server root (required).
	BaseURL string

	// ManifestPath is the manifest location relative to BaseURL
	// (default: manifest.json).
	ManifestPath string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Fetcher downloads documents over HTTP.
type Fetcher struct {
	client       *http.Client
	baseURL      string
	manifestPath string
}

// NewFetcher creates a new HTTP document fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("httpfetch: base URL is required")
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultManifestPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		manifestPath: cfg.ManifestPath,
	}, nil
}

// Manifest downloads and decodes the manifest: a JSON array of filenames,
// in index order.
func (f *Fetcher) Manifest(ctx context.Context) ([]string, error) {
	body, err := f.get(ctx, f.baseURL+"/"+f.manifestPath)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("httpfetch: decode manifest: %w", err)
	}
	return names, nil
}

// Fetch downloads one document by its manifest name.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("httpfetch: empty document name: %w", domain.ErrInvalidInput)
	}
	return f.get(ctx, f.baseURL+"/"+url.PathEscape(name))
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("httpfetch: %s: %w", rawURL, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpfetch: %s returned status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: read response: %w", err)
	}
	return body, nil
}
