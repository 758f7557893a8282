package port

import "auditrag/internal/domain"

// CorpusReader gives request handlers a read-only view of the corpus
// index. The snapshot is immutable; concurrent readers need no locking.
type CorpusReader interface {
	Snapshot() []domain.EmbeddedChunk
	Len() int
	Generation() uint64
}

// CorpusWriter replaces the corpus index wholesale. Readers see either
// the old complete index or the new one, never a partial state.
type CorpusWriter interface {
	Swap(chunks []domain.EmbeddedChunk)
}
