package index

import (
	"sync"

	"auditrag/internal/domain"
)

// Corpus is the in-memory set of embedded chunks the retriever searches.
// The whole set is replaced atomically on rebuild; there is no
// incremental update path. The generation counter ticks on every swap
// so downstream caches know when their entries went stale.
type Corpus struct {
	mu         sync.RWMutex
	chunks     []domain.EmbeddedChunk
	generation uint64
}

func NewCorpus() *Corpus {
	return &Corpus{}
}

// Swap replaces the corpus contents and bumps the generation.
func (c *Corpus) Swap(chunks []domain.EmbeddedChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = chunks
	c.generation++
}

// Snapshot returns the current chunk slice. Callers must treat it as
// read-only; Swap never mutates a slice it has handed out.
func (c *Corpus) Snapshot() []domain.EmbeddedChunk {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chunks
}

func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chunks)
}

func (c *Corpus) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}
