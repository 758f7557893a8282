package port

import "auditrag/internal/domain"

// EmbeddingCache stores successful embeddings keyed by model and text so
// re-running ingestion does not re-pay the backend for unchanged chunks.
type EmbeddingCache interface {
	Get(model, text string) ([]float32, bool)
	Put(model, text string, vector []float32) error
	Close() error
}

// RetrievalCache caches ranked retrieval results per query. Entries are
// invalidated when the corpus index is rebuilt.
type RetrievalCache interface {
	Get(query string, topK int) ([]domain.ScoredChunk, bool)
	Put(query string, topK int, results []domain.ScoredChunk)
	Invalidate()
}
