package usecase

import (
	"strings"
	"testing"

	"auditrag/internal/adapter/cache"
	"auditrag/internal/adapter/index"
	"auditrag/internal/adapter/lang"
	"auditrag/internal/adapter/retriever"
	"auditrag/internal/domain"
)

type stubGenerator struct {
	calls      int
	response   string
	err        error
	lastPrompt string
}

func (g *stubGenerator) Generate(prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *stubGenerator) ModelName() string { return "stub-gen" }

func newExpander(t *testing.T) *lang.Expander {
	t.Helper()
	dict, err := lang.BuiltinDictionary()
	if err != nil {
		t.Fatal(err)
	}
	return lang.NewExpander(lang.NewAnalyzer(dict))
}

func newChat(t *testing.T, emb *stubEmbedder, corpus *index.Corpus, gen *stubGenerator, gateEnabled bool) *ChatUseCase {
	t.Helper()
	return NewChatUseCase(
		newExpander(t),
		emb,
		corpus,
		retriever.NewRanker(5, 0.1),
		gen,
		nil,
		gateEnabled,
		5,
		testLogger(),
	)
}

func TestChatRefusesOutOfDomainQuery(t *testing.T) {
	emb := &stubEmbedder{dimension: 4}
	gen := &stubGenerator{response: "should not be called"}
	u := newChat(t, emb, index.NewCorpus(), gen, true)

	res, err := u.Chat("What is the weather today?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response != refusalEnglish {
		t.Errorf("expected the fixed English refusal, got %q", res.Response)
	}
	if len(res.Sources) != 0 || len(res.Scores) != 0 {
		t.Error("refusal must carry empty sources and scores")
	}
	if res.Sources == nil || res.Scores == nil {
		t.Error("sources and scores must be empty slices, not nil")
	}
	if emb.calls != 0 || gen.calls != 0 {
		t.Error("no backend call may be issued for a refused query")
	}
}

func TestChatRefusesArabicOutOfDomainQuery(t *testing.T) {
	gen := &stubGenerator{}
	u := newChat(t, &stubEmbedder{dimension: 4}, index.NewCorpus(), gen, true)

	res, err := u.Chat("ما هو الطقس اليوم؟")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response != refusalArabic {
		t.Errorf("expected the fixed Arabic refusal, got %q", res.Response)
	}
}

func TestChatEmptyCorpusAnswersUngrounded(t *testing.T) {
	emb := &stubEmbedder{dimension: 4}
	gen := &stubGenerator{response: "Internal audit is an independent activity."}
	u := newChat(t, emb, index.NewCorpus(), gen, true)

	res, err := u.Chat("What is internal audit?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response != gen.response {
		t.Errorf("unexpected response: %q", res.Response)
	}
	if len(res.Sources) != 0 || res.Grounded {
		t.Error("empty corpus must produce an ungrounded answer with no sources")
	}
	if emb.calls != 0 {
		t.Error("empty corpus should skip the query embedding")
	}
	if gen.calls != 1 {
		t.Errorf("expected one generation call, got %d", gen.calls)
	}
}

func TestChatPerfectMatchIsFirstSource(t *testing.T) {
	emb := &stubEmbedder{dimension: 4}
	gen := &stubGenerator{response: "answer"}

	// The stub embeds by text length, so an identical-length chunk text
	// is a perfect cosine match for the query.
	query := "What is internal audit?"
	queryVec, _ := emb.EmbedOne(query)
	emb.calls = 0

	corpus := index.NewCorpus()
	corpus.Swap([]domain.EmbeddedChunk{
		{Chunk: domain.Chunk{Text: "unrelated", Source: "other.txt"}, Embedding: []float32{0, 1, 0, 0}},
		{Chunk: domain.Chunk{Text: "audit charter text", Source: "charter.txt"}, Embedding: queryVec},
	})

	u := newChat(t, emb, corpus, gen, true)
	res, err := u.Chat(query)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Grounded || len(res.Sources) == 0 {
		t.Fatal("expected a grounded answer")
	}
	if res.Sources[0] != "charter.txt" {
		t.Errorf("expected charter.txt first, got %s", res.Sources[0])
	}
	if res.Scores[0] < 0.999999 {
		t.Errorf("identical embedding must score 1.0, got %f", res.Scores[0])
	}
	if !strings.Contains(gen.lastPrompt, "[1] audit charter text (source: charter.txt)") {
		t.Errorf("prompt must cite the chunk with its source, got:\n%s", gen.lastPrompt)
	}
}

func TestChatGenerationBlockedSurfacesReason(t *testing.T) {
	gen := &stubGenerator{err: &domain.GenerationBlockedError{Reason: "SAFETY"}}
	u := newChat(t, &stubEmbedder{dimension: 4}, index.NewCorpus(), gen, true)

	res, err := u.Chat("What is internal audit?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Response, "SAFETY") {
		t.Errorf("block reason must be surfaced, got %q", res.Response)
	}
}

func TestChatGenerationFailureIsRequestError(t *testing.T) {
	gen := &stubGenerator{err: &domain.BackendError{Kind: domain.KindUnknown, Status: 500}}
	u := newChat(t, &stubEmbedder{dimension: 4}, index.NewCorpus(), gen, true)

	if _, err := u.Chat("What is internal audit?"); err == nil {
		t.Error("expected a request-level error on generation failure")
	}
}

func TestChatEmbeddingFailureDegradesToUngrounded(t *testing.T) {
	emb := &stubEmbedder{dimension: 4, fail: func(call int, text string) error {
		return &domain.BackendError{Kind: domain.KindRateLimited, Status: 429}
	}}
	gen := &stubGenerator{response: "general knowledge answer"}

	corpus := index.NewCorpus()
	corpus.Swap([]domain.EmbeddedChunk{
		{Chunk: domain.Chunk{Text: "chunk", Source: "doc.txt"}, Embedding: []float32{1, 0, 0, 0}},
	})

	u := newChat(t, emb, corpus, gen, true)
	res, err := u.Chat("What is internal audit?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Grounded || len(res.Sources) != 0 {
		t.Error("a failed query embedding must degrade to an ungrounded answer")
	}
	if gen.calls != 1 {
		t.Error("generation must still run")
	}
}

func TestChatEmbeddingInvalidRequestFailsRequest(t *testing.T) {
	emb := &stubEmbedder{dimension: 4, fail: func(call int, text string) error {
		return &domain.BackendError{Kind: domain.KindInvalidRequest, Status: 400}
	}}
	gen := &stubGenerator{}

	corpus := index.NewCorpus()
	corpus.Swap([]domain.EmbeddedChunk{
		{Chunk: domain.Chunk{Text: "chunk", Source: "doc.txt"}, Embedding: []float32{1, 0, 0, 0}},
	})

	u := newChat(t, emb, corpus, gen, true)
	if _, err := u.Chat("What is internal audit?"); err == nil {
		t.Error("a rejected embedding request must fail the request")
	}
	if gen.calls != 0 {
		t.Error("generation must not run after a rejected embedding request")
	}
}

func TestChatGateDisabledAnswersAnything(t *testing.T) {
	gen := &stubGenerator{response: "expanded answer"}
	u := newChat(t, &stubEmbedder{dimension: 4}, index.NewCorpus(), gen, false)

	res, err := u.Chat("What is the weather today?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response != "expanded answer" {
		t.Errorf("gate disabled must answer, got %q", res.Response)
	}
	if res.Strategy != domain.StrategyExpanded {
		t.Errorf("zero-concept query should use the expanded strategy, got %s", res.Strategy)
	}
}

func TestChatUsesRetrievalCache(t *testing.T) {
	emb := &stubEmbedder{dimension: 4}
	gen := &stubGenerator{response: "answer"}

	corpus := index.NewCorpus()
	corpus.Swap([]domain.EmbeddedChunk{
		{Chunk: domain.Chunk{Text: "chunk", Source: "doc.txt"}, Embedding: []float32{1, 0, 0, 0}},
	})

	rc := cache.NewRetrievalCache(10, 0)
	u := NewChatUseCase(newExpander(t), emb, corpus, retriever.NewRanker(5, -1), gen, rc, true, 5, testLogger())

	if _, err := u.Chat("What is internal audit?"); err != nil {
		t.Fatal(err)
	}
	embedCallsAfterFirst := emb.calls

	if _, err := u.Chat("What is internal audit?"); err != nil {
		t.Fatal(err)
	}
	if emb.calls != embedCallsAfterFirst {
		t.Error("second identical query must be served from the retrieval cache")
	}
}
