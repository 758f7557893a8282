package store

import (
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *EmbedCache {
	t.Helper()
	c, err := NewEmbedCache(filepath.Join(t.TempDir(), "embed.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestEmbedCachePutGet(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Get("embedding-001", "internal audit"); ok {
		t.Fatal("empty cache must miss")
	}

	vec := []float32{0.1, 0.2, 0.3}
	if err := c.Put("embedding-001", "internal audit", vec); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get("embedding-001", "internal audit")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if len(got) != 3 || got[1] != 0.2 {
		t.Errorf("unexpected cached vector: %v", got)
	}
}

func TestEmbedCacheKeyedByModel(t *testing.T) {
	c := newTestCache(t)

	c.Put("embedding-001", "audit", []float32{1})
	if _, ok := c.Get("embedding-002", "audit"); ok {
		t.Error("different model must not share cached vectors")
	}
}

func TestEmbedCachePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embed.db")

	c, err := NewEmbedCache(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("m", "text", []float32{0.5})
	c.Close()

	c2, err := NewEmbedCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	got, ok := c2.Get("m", "text")
	if !ok || got[0] != 0.5 {
		t.Errorf("expected persisted vector, got %v ok=%v", got, ok)
	}
}
