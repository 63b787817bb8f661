package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction to the extractor registered for the
// document's file extension.
type Registry struct {
	mu         sync.RWMutex
	byExt      map[string]driven.TextExtractor
	extensions []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.TextExtractor)}
}

// Register adds an extractor for its declared extensions. Later
// registrations win on extension conflicts.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extractor.Extensions() {
		ext = strings.ToLower(ext)
		if _, exists := r.byExt[ext]; !exists {
			r.extensions = append(r.extensions, ext)
		}
		r.byExt[ext] = extractor
	}
}

// Extract selects the extractor for the document's extension and runs it.
func (r *Registry) Extract(ctx context.Context, name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	r.mu.RLock()
	extractor, ok := r.byExt[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	return extractor.Extract(ctx, name, data)
}

// SupportedExtensions returns the registered extensions in registration
// order. Used for CLI help output.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.extensions...)
}
