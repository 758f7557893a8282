package embedding

import (
	"strings"

	"auditrag/internal/domain"
)

// MockEmbedder produces deterministic embeddings from the text's runes.
// Identical texts get identical vectors, which is all the ranking tests
// need.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) EmbedOne(text string) ([]float32, error) {
	clean := strings.Join(strings.Fields(text), " ")
	if clean == "" {
		return nil, domain.ErrEmptyInput
	}

	vec := make([]float32, e.dimension)
	for i, r := range clean {
		if i >= e.dimension {
			break
		}
		vec[i] = float32(r) / 1000.0
	}
	return vec, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
