// Package plaintext extracts text from plain-text documents.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract converts raw bytes to text. Invalid UTF-8 is rejected rather
// than silently mangled.
func (e *Extractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrInvalidInput
	}
	return strings.TrimSpace(string(data)), nil
}
