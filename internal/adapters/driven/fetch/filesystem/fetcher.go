// Package filesystem provides a document fetcher backed by a local directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// Fetcher reads documents from a directory on disk.
type Fetcher struct {
	dir  string
	exts map[string]bool
}

// NewFetcher creates a fetcher rooted at dir. When extensions is non-empty
// the manifest only lists files with those extensions (lowercase, with dot).
func NewFetcher(dir string, extensions []string) (*Fetcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("filesystem: directory is required")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filesystem: %s is not a directory", dir)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	return &Fetcher{dir: dir, exts: exts}, nil
}

// Manifest lists the document filenames in the directory, sorted by name.
// Subdirectories and hidden files are skipped.
func (f *Fetcher) Manifest(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if len(f.exts) > 0 && !f.exts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Fetch reads one document by its manifest name.
func (f *Fetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	// Manifest names are bare filenames; reject anything that could
	// escape the document directory.
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, fmt.Errorf("filesystem: invalid document name %q: %w", name, domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("filesystem: %s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("filesystem: read %s: %w", name, err)
	}
	return data, nil
}
