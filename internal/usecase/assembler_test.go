package usecase

import (
	"strings"
	"testing"

	"auditrag/internal/domain"
)

func TestBuildPromptGrounded(t *testing.T) {
	matches := []domain.ScoredChunk{
		{EmbeddedChunk: domain.EmbeddedChunk{Chunk: domain.Chunk{Text: "audit charter", Source: "charter.txt"}}, Score: 0.9},
		{EmbeddedChunk: domain.EmbeddedChunk{Chunk: domain.Chunk{Text: "iia standards", Source: "standards.pdf"}}, Score: 0.7},
	}

	prompt := BuildPrompt("what is internal audit", matches)

	if !strings.Contains(prompt, "[1] audit charter (source: charter.txt)") {
		t.Errorf("first chunk missing or malformed:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[2] iia standards (source: standards.pdf)") {
		t.Errorf("second chunk missing or malformed:\n%s", prompt)
	}
	if !strings.Contains(prompt, "charter.txt)\n\n[2]") {
		t.Error("chunks must be separated by a blank line")
	}
	if !strings.Contains(prompt, `"what is internal audit"`) {
		t.Error("prompt must contain the query")
	}
}

func TestBuildPromptUngrounded(t *testing.T) {
	prompt := BuildPrompt("what is internal audit", nil)

	if strings.Contains(prompt, "Context") {
		t.Error("ungrounded prompt must not claim to have context")
	}
	if !strings.Contains(prompt, `"what is internal audit"`) {
		t.Error("prompt must contain the query")
	}
}
