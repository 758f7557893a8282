package port

import "auditrag/internal/domain"

// Chunker splits raw document text into retrievable chunks.
type Chunker interface {
	Split(text, source string) []domain.Chunk
}
