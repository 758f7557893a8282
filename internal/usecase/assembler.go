package usecase

import (
	"fmt"
	"strings"

	"auditrag/internal/domain"
)

// BuildPrompt assembles the generation prompt from the expanded query
// and the ranked matches. With matches, each chunk is numbered and
// attributed to its source document; without matches, the prompt asks
// for the fullest possible answer instead of pretending to be grounded.
func BuildPrompt(query string, matches []domain.ScoredChunk) string {
	if len(matches) == 0 {
		return fmt.Sprintf("User question: %q\nPlease provide as comprehensive and detailed an answer as possible, in the same language as the question.", query)
	}

	lines := make([]string, 0, len(matches))
	for i, m := range matches {
		lines = append(lines, fmt.Sprintf("[%d] %s (source: %s)", i+1, m.Text, m.Source))
	}

	return fmt.Sprintf("Context from the documents:\n%s\n\nUser question: %q\nPlease provide a comprehensive, detailed answer with an extended explanation based on the context above, in the same language as the question.",
		strings.Join(lines, "\n\n"), query)
}
