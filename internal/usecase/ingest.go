package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"auditrag/internal/domain"
	"auditrag/internal/port"
)

// IngestUseCase rebuilds the corpus index from scratch: list documents,
// chunk them, embed every chunk, swap the result in. There is no
// incremental path; a rebuild is the only way the corpus changes.
type IngestUseCase struct {
	source     port.DocumentSource
	chunker    port.Chunker
	embedder   port.Embedder
	corpus     port.CorpusWriter
	embedCache port.EmbeddingCache
	limiter    *rate.Limiter
	logger     *slog.Logger

	// Progress, when set, is called after each chunk is embedded with
	// the number done and the total.
	Progress func(done, total int)
}

// IngestStats summarizes one rebuild.
type IngestStats struct {
	Documents      int
	Chunks         int
	Embedded       int
	CacheHits      int
	SkippedEmpty   int
	FailedFallback int
	Elapsed        time.Duration
}

func NewIngestUseCase(
	source port.DocumentSource,
	chunker port.Chunker,
	embedder port.Embedder,
	corpus port.CorpusWriter,
	embedCache port.EmbeddingCache,
	delay time.Duration,
	logger *slog.Logger,
) *IngestUseCase {
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		source:     source,
		chunker:    chunker,
		embedder:   embedder,
		corpus:     corpus,
		embedCache: embedCache,
		limiter:    limiter,
		logger:     logger,
	}
}

// Ingest runs one full rebuild. Chunks are embedded sequentially with a
// fixed pacing delay. An invalid_request backend error aborts the batch
// immediately: the credential is bad and every later call would fail
// the same way. Any other embedding failure degrades that one chunk to
// a zero vector so it stays in the index but never matches a query.
func (u *IngestUseCase) Ingest(ctx context.Context) (*IngestStats, error) {
	start := time.Now()
	stats := &IngestStats{}

	docs, err := u.source.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	stats.Documents = len(docs)

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, u.chunker.Split(doc.Text, doc.Name)...)
	}
	stats.Chunks = len(chunks)

	embedded := make([]domain.EmbeddedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := u.embedChunk(ctx, chunk, stats)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyInput) {
				stats.SkippedEmpty++
				continue
			}
			if domain.IsInvalidRequest(err) {
				// Bad credential or malformed request: every remaining
				// call would fail the same way. Keep what we have.
				u.logger.Error("aborting ingest: backend rejected the request",
					"chunk", i, "source", chunk.Source, "error", err)
				break
			}
			u.logger.Warn("embedding failed, using zero vector",
				"source", chunk.Source, "error", err)
			vec = make([]float32, u.embedder.Dimension())
			stats.FailedFallback++
		}

		embedded = append(embedded, domain.EmbeddedChunk{Chunk: chunk, Embedding: vec})
		if u.Progress != nil {
			u.Progress(i+1, len(chunks))
		}
	}

	u.corpus.Swap(embedded)
	stats.Embedded = len(embedded)
	stats.Elapsed = time.Since(start)

	if len(embedded) == 0 {
		u.logger.Warn("corpus index is empty after ingest",
			"documents", stats.Documents, "chunks", stats.Chunks)
	} else {
		u.logger.Info("corpus index rebuilt",
			"documents", stats.Documents,
			"chunks", stats.Embedded,
			"cache_hits", stats.CacheHits,
			"elapsed", stats.Elapsed)
	}

	return stats, nil
}

func (u *IngestUseCase) embedChunk(ctx context.Context, chunk domain.Chunk, stats *IngestStats) ([]float32, error) {
	model := u.embedder.ModelName()
	if u.embedCache != nil {
		if vec, ok := u.embedCache.Get(model, chunk.Text); ok {
			stats.CacheHits++
			return vec, nil
		}
	}

	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	vec, err := u.embedder.EmbedOne(chunk.Text)
	if err != nil {
		return nil, err
	}

	if u.embedCache != nil {
		if err := u.embedCache.Put(model, chunk.Text, vec); err != nil {
			u.logger.Warn("failed to write embedding cache", "error", err)
		}
	}
	return vec, nil
}
