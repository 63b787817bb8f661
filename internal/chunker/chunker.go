// Package chunker splits document text into retrieval-sized segments.
//
// The strategy is boundary-based rather than sliding-window: text is split
// into sections at blank lines, oversized sections are split again at
// sentence boundaries, and fragments below a minimum length are dropped as
// noise. Adjacent chunks do not overlap; this trades a little recall for a
// much simpler index.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultTargetSize is the soft maximum chunk length in characters.
const DefaultTargetSize = 2000

// DefaultMinLength is the noise floor; shorter fragments are dropped.
const DefaultMinLength = 50

// sectionBoundary matches one or more blank lines (lines that are empty or
// whitespace-only) separating two sections.
var sectionBoundary = regexp.MustCompile(`\n[ \t]*\n+`)

// Chunker splits text into retrieval units.
type Chunker struct {
	targetSize int
	minLength  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithTargetSize sets the soft maximum chunk size in characters.
func WithTargetSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.targetSize = size
		}
	}
}

// WithMinLength sets the minimum chunk length in characters.
func WithMinLength(length int) Option {
	return func(c *Chunker) {
		if length > 0 {
			c.minLength = length
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		targetSize: DefaultTargetSize,
		minLength:  DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Split chunks the text into an ordered sequence of content strings.
// It is deterministic for identical input. Empty input yields nil; input
// without blank-line boundaries is treated as a single section subject to
// sentence splitting.
func (c *Chunker) Split(text string) []string {
	text = normalizeLineEndings(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	for _, section := range sectionBoundary.Split(text, -1) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		if len(section) <= c.targetSize {
			chunks = c.appendChunk(chunks, section)
			continue
		}
		for _, part := range c.splitBySentence(section) {
			chunks = c.appendChunk(chunks, part)
		}
	}
	return chunks
}

// appendChunk adds the chunk unless it falls below the minimum length.
func (c *Chunker) appendChunk(chunks []string, chunk string) []string {
	if len(chunk) < c.minLength {
		return chunks
	}
	return append(chunks, chunk)
}

// splitBySentence breaks an oversized section at sentence boundaries,
// greedily accumulating sentences until the next one would push the buffer
// past the target size. A single sentence longer than the target size is
// emitted whole; see the package doc for this known limitation.
func (c *Chunker) splitBySentence(section string) []string {
	sentences := splitSentences(section)

	var parts []string
	var buf strings.Builder
	for _, sentence := range sentences {
		if buf.Len() > 0 && buf.Len()+1+len(sentence) > c.targetSize {
			parts = append(parts, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}

// splitSentences cuts text after each terminator (., !, ?) that is
// followed by whitespace or end of input.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && !isSpace(text[i+1]) {
				continue
			}
			sentence := strings.TrimSpace(text[start : i+1])
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

// normalizeLineEndings converts CRLF and bare CR to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
