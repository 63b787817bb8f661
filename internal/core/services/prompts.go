package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

// Subtopic decomposition bounds. The decompose prompt asks for this range;
// the parser enforces it defensively on whatever comes back.
const (
	minSubtopics = 1
	maxSubtopics = 7
)

// decomposePrompt renders the subtopic decomposition prompt for a query.
func decomposePrompt(store driven.PromptStore, query string) (string, error) {
	template, err := store.Load(driven.PromptDecompose)
	if err != nil {
		return "", fmt.Errorf("load decompose prompt: %w", err)
	}
	return fmt.Sprintf(template, query), nil
}

// synthesisSystemPrompt returns the system prompt for the given mode.
func synthesisSystemPrompt(store driven.PromptStore, mode domain.ResponseMode) (string, error) {
	name := driven.PromptSynthesizeDetailed
	if mode == domain.ModeQuick {
		name = driven.PromptSynthesizeQuick
	}
	prompt, err := store.Load(name)
	if err != nil {
		return "", fmt.Errorf("load synthesis prompt: %w", err)
	}
	return prompt, nil
}

// buildExcerpts formats retrieved chunks as a numbered context block.
// Numbering matches the citation indices the synthesis prompt asks for.
func buildExcerpts(chunks []domain.ScoredChunk) string {
	if len(chunks) == 0 {
		return "No relevant excerpts were found in the indexed documents."
	}

	var b strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] (%s)\n%s", i+1, sc.Chunk.Source, sc.Chunk.Content)
	}
	return b.String()
}

// buildUserMessage combines the context block with the question.
func buildUserMessage(query string, chunks []domain.ScoredChunk) string {
	return fmt.Sprintf("Document excerpts:\n\n%s\n\nQuestion: %s", buildExcerpts(chunks), query)
}

// buildGroupedExcerpts formats merged chunks sectioned under the subtopic
// that retrieved them. Numbering follows the merged ranking so citation
// indices stay consistent with citationsFor; a chunk retrieved for several
// subtopics appears once, under the first.
func buildGroupedExcerpts(results []domain.SubtopicResult, merged []domain.ScoredChunk) string {
	if len(merged) == 0 {
		return "No relevant excerpts were found in the indexed documents."
	}

	numbers := make(map[string]int, len(merged))
	for i, sc := range merged {
		numbers[sc.Chunk.ID] = i + 1
	}

	var b strings.Builder
	printed := make(map[string]bool, len(merged))
	for _, r := range results {
		var section []string
		for _, sc := range r.Chunks {
			n, kept := numbers[sc.Chunk.ID]
			if !kept || printed[sc.Chunk.ID] {
				continue
			}
			printed[sc.Chunk.ID] = true
			section = append(section, fmt.Sprintf("[%d] (%s)\n%s", n, sc.Chunk.Source, sc.Chunk.Content))
		}
		if len(section) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n\n%s", r.Subtopic, strings.Join(section, "\n\n"))
	}
	return b.String()
}

// buildCompoundUserMessage combines the grouped context block with the
// question.
func buildCompoundUserMessage(query string, results []domain.SubtopicResult, merged []domain.ScoredChunk) string {
	return fmt.Sprintf("Document excerpts, grouped by subtopic:\n\n%s\n\nQuestion: %s",
		buildGroupedExcerpts(results, merged), query)
}

// parseSubtopics extracts the JSON array of subtopics from a completion.
// Models wrap JSON in prose or code fences often enough that the parser
// scans for the array instead of unmarshalling the whole reply.
func parseSubtopics(raw string) ([]string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON array in reply", domain.ErrDecompositionParse)
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecompositionParse, err)
	}

	subtopics := make([]string, 0, len(parsed))
	for _, s := range parsed {
		s = strings.TrimSpace(s)
		if s != "" {
			subtopics = append(subtopics, s)
		}
	}
	if len(subtopics) < minSubtopics {
		return nil, fmt.Errorf("%w: empty array", domain.ErrDecompositionParse)
	}
	if len(subtopics) > maxSubtopics {
		subtopics = subtopics[:maxSubtopics]
	}
	return subtopics, nil
}
