package usecase

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"auditrag/internal/adapter/chunker"
	"auditrag/internal/adapter/index"
	"auditrag/internal/domain"
)

type stubSource struct {
	docs []domain.RawDocument
	err  error
}

func (s *stubSource) List() ([]domain.RawDocument, error) {
	return s.docs, s.err
}

type stubEmbedder struct {
	dimension int
	calls     int
	fail      func(call int, text string) error
}

func (e *stubEmbedder) EmbedOne(text string) ([]float32, error) {
	e.calls++
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}
	if e.fail != nil {
		if err := e.fail(e.calls, text); err != nil {
			return nil, err
		}
	}
	vec := make([]float32, e.dimension)
	vec[0] = float32(len(text))
	return vec, nil
}

func (e *stubEmbedder) Dimension() int    { return e.dimension }
func (e *stubEmbedder) ModelName() string { return "stub" }

type memEmbedCache struct {
	entries map[string][]float32
}

func newMemEmbedCache() *memEmbedCache {
	return &memEmbedCache{entries: make(map[string][]float32)}
}

func (c *memEmbedCache) Get(model, text string) ([]float32, bool) {
	v, ok := c.entries[model+"|"+text]
	return v, ok
}

func (c *memEmbedCache) Put(model, text string, vec []float32) error {
	c.entries[model+"|"+text] = vec
	return nil
}

func (c *memEmbedCache) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestIngestBuildsIndex(t *testing.T) {
	source := &stubSource{docs: []domain.RawDocument{
		{Name: "charter.txt", Text: "internal audit charter"},
		{Name: "standards.txt", Text: "iia standards"},
	}}
	emb := &stubEmbedder{dimension: 4}
	corpus := index.NewCorpus()

	u := NewIngestUseCase(source, chunker.NewWindowChunker(100, 10), emb, corpus, nil, 0, testLogger())

	var progressCalls int
	u.Progress = func(done, total int) { progressCalls++ }

	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 2 || stats.Chunks != 2 || stats.Embedded != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if corpus.Len() != 2 {
		t.Errorf("expected 2 chunks in corpus, got %d", corpus.Len())
	}
	if corpus.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", corpus.Generation())
	}
	if progressCalls != 2 {
		t.Errorf("expected 2 progress callbacks, got %d", progressCalls)
	}
}

func TestIngestZeroVectorFallback(t *testing.T) {
	source := &stubSource{docs: []domain.RawDocument{
		{Name: "a.txt", Text: "good chunk"},
		{Name: "b.txt", Text: "rate limited chunk"},
	}}
	emb := &stubEmbedder{dimension: 4, fail: func(call int, text string) error {
		if strings.Contains(text, "rate limited") {
			return &domain.BackendError{Kind: domain.KindRateLimited, Status: 429}
		}
		return nil
	}}
	corpus := index.NewCorpus()

	u := NewIngestUseCase(source, chunker.NewWindowChunker(100, 10), emb, corpus, nil, 0, testLogger())
	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Embedded != 2 || stats.FailedFallback != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	for _, c := range corpus.Snapshot() {
		if c.Source == "b.txt" {
			for _, v := range c.Embedding {
				if v != 0 {
					t.Fatal("failed chunk must carry a zero vector")
				}
			}
			if len(c.Embedding) != 4 {
				t.Errorf("zero vector must have the configured dimension, got %d", len(c.Embedding))
			}
		}
	}
}

func TestIngestAbortsOnInvalidRequest(t *testing.T) {
	source := &stubSource{docs: []domain.RawDocument{
		{Name: "a.txt", Text: "first"},
		{Name: "b.txt", Text: "second"},
		{Name: "c.txt", Text: "third"},
	}}
	emb := &stubEmbedder{dimension: 4, fail: func(call int, text string) error {
		if text == "second" {
			return &domain.BackendError{Kind: domain.KindInvalidRequest, Status: 400, Message: "API key not valid"}
		}
		return nil
	}}
	corpus := index.NewCorpus()

	u := NewIngestUseCase(source, chunker.NewWindowChunker(100, 10), emb, corpus, nil, 0, testLogger())
	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// The first chunk survives; the third is never attempted.
	if stats.Embedded != 1 {
		t.Errorf("expected 1 embedded chunk, got %d", stats.Embedded)
	}
	if emb.calls != 2 {
		t.Errorf("expected the batch to stop after the rejected call, got %d calls", emb.calls)
	}
}

func TestIngestSkipsEmptyChunks(t *testing.T) {
	// The middle window is all whitespace and must be skipped, not
	// embedded.
	source := &stubSource{docs: []domain.RawDocument{
		{Name: "a.txt", Text: "ab" + strings.Repeat(" ", 8) + "cd"},
	}}
	emb := &stubEmbedder{dimension: 4}
	corpus := index.NewCorpus()

	u := NewIngestUseCase(source, chunker.NewWindowChunker(5, 0), emb, corpus, nil, 0, testLogger())
	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SkippedEmpty != 1 {
		t.Errorf("expected 1 skipped chunk, got %d", stats.SkippedEmpty)
	}
	if corpus.Len() != 2 {
		t.Errorf("expected 2 chunks in corpus, got %d", corpus.Len())
	}
}

func TestIngestUsesEmbedCache(t *testing.T) {
	source := &stubSource{docs: []domain.RawDocument{
		{Name: "a.txt", Text: "cached text"},
	}}
	emb := &stubEmbedder{dimension: 4}
	cache := newMemEmbedCache()
	cache.Put("stub", "cached text", []float32{9, 9, 9, 9})
	corpus := index.NewCorpus()

	u := NewIngestUseCase(source, chunker.NewWindowChunker(100, 10), emb, corpus, cache, 0, testLogger())
	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", stats.CacheHits)
	}
	if emb.calls != 0 {
		t.Errorf("backend must not be called on a cache hit, got %d calls", emb.calls)
	}
	if corpus.Snapshot()[0].Embedding[0] != 9 {
		t.Error("cached vector should be used")
	}
}

func TestIngestEmptySourceSwapsEmptyIndex(t *testing.T) {
	corpus := index.NewCorpus()
	corpus.Swap([]domain.EmbeddedChunk{{Chunk: domain.Chunk{Text: "stale"}}})

	u := NewIngestUseCase(&stubSource{}, chunker.NewWindowChunker(100, 10), &stubEmbedder{dimension: 4}, corpus, nil, 0, testLogger())
	stats, err := u.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Embedded != 0 {
		t.Errorf("expected empty index, got %d", stats.Embedded)
	}
	if corpus.Len() != 0 {
		t.Error("rebuild from an empty source must clear the index")
	}
}
