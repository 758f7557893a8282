package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"auditrag/internal/domain"
	"auditrag/internal/port"
)

// Refusal texts returned when the relevance gate rejects a query. The
// Arabic text is also used for mixed and unknown languages, matching
// the chatbot's primary audience.
const (
	refusalArabic  = "عذراً، هذا الشات بوت متخصص فقط في الإجابة على الأسئلة المتعلقة بالتدقيق الداخلي. يرجى طرح سؤال متعلق بمجال التدقيق الداخلي أو المراجعة الداخلية."
	refusalEnglish = "Sorry, this chatbot only answers questions about internal audit. Please ask a question related to internal audit or internal review."
)

// ChatResult is the outcome of one chat request.
type ChatResult struct {
	Response string
	Sources  []string
	Scores   []float64
	Strategy domain.SearchStrategy
	Grounded bool
}

// ChatUseCase runs the request pipeline: gate, expand, retrieve, rank,
// assemble, generate.
type ChatUseCase struct {
	expander    port.QueryExpander
	embedder    port.Embedder
	corpus      port.CorpusReader
	ranker      Ranker
	generator   port.Generator
	cache       port.RetrievalCache
	gateEnabled bool
	topK        int
	logger      *slog.Logger
}

// Ranker orders corpus chunks by similarity to the query embedding.
type Ranker interface {
	Rank(query []float32, chunks []domain.EmbeddedChunk) []domain.ScoredChunk
}

func NewChatUseCase(
	expander port.QueryExpander,
	embedder port.Embedder,
	corpus port.CorpusReader,
	ranker Ranker,
	generator port.Generator,
	cache port.RetrievalCache,
	gateEnabled bool,
	topK int,
	logger *slog.Logger,
) *ChatUseCase {
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatUseCase{
		expander:    expander,
		embedder:    embedder,
		corpus:      corpus,
		ranker:      ranker,
		generator:   generator,
		cache:       cache,
		gateEnabled: gateEnabled,
		topK:        topK,
		logger:      logger,
	}
}

// Chat answers one user message. An out-of-domain message is refused
// before any backend call. A failed query embedding (other than a
// rejected request) degrades to an ungrounded answer rather than
// failing the request.
func (u *ChatUseCase) Chat(message string) (*ChatResult, error) {
	expanded := u.expander.Expand(message)

	if u.gateEnabled && !expanded.Analysis.AuditRelated {
		u.logger.Info("query rejected by relevance gate",
			"language", expanded.Analysis.Language)
		return &ChatResult{
			Response: refusalFor(expanded.Analysis.Language),
			Sources:  []string{},
			Scores:   []float64{},
			Strategy: expanded.Strategy,
		}, nil
	}

	matches, err := u.retrieve(expanded)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(expanded.Enhanced, matches)
	response, err := u.generator.Generate(prompt)
	if err != nil {
		var blocked *domain.GenerationBlockedError
		if errors.As(err, &blocked) {
			response = fmt.Sprintf("The response was blocked: %s", blocked.Reason)
		} else {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
	}

	result := &ChatResult{
		Response: response,
		Sources:  make([]string, 0, len(matches)),
		Scores:   make([]float64, 0, len(matches)),
		Strategy: expanded.Strategy,
		Grounded: len(matches) > 0,
	}
	for _, m := range matches {
		result.Sources = append(result.Sources, m.Source)
		result.Scores = append(result.Scores, m.Score)
	}
	return result, nil
}

// retrieve embeds the expanded query and ranks the corpus against it.
// Retrieval failures other than a rejected request mean the answer is
// simply ungrounded; the pipeline carries on with no matches.
func (u *ChatUseCase) retrieve(expanded domain.ExpandedQuery) ([]domain.ScoredChunk, error) {
	if u.corpus.Len() == 0 {
		u.logger.Warn("corpus index is empty, answering ungrounded")
		return nil, nil
	}

	if u.cache != nil {
		if cached, hit := u.cache.Get(expanded.Enhanced, u.topK); hit {
			return cached, nil
		}
	}

	queryVec, err := u.embedder.EmbedOne(expanded.Enhanced)
	if err != nil {
		if domain.IsInvalidRequest(err) {
			return nil, fmt.Errorf("embedding request rejected: %w", err)
		}
		u.logger.Warn("query embedding failed, answering ungrounded", "error", err)
		return nil, nil
	}

	matches := u.ranker.Rank(queryVec, u.corpus.Snapshot())

	if u.cache != nil {
		u.cache.Put(expanded.Enhanced, u.topK, matches)
	}
	return matches, nil
}

func refusalFor(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return refusalEnglish
	}
	return refusalArabic
}
