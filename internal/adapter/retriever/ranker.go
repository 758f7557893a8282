package retriever

import (
	"math"
	"sort"

	"auditrag/internal/domain"
)

// Ranker scores corpus chunks against a query embedding by cosine
// similarity and keeps the best matches.
type Ranker struct {
	topK     int
	minScore float64
}

func NewRanker(topK int, minScore float64) *Ranker {
	if topK <= 0 {
		topK = 5
	}
	return &Ranker{topK: topK, minScore: minScore}
}

// Rank scores every chunk, sorts descending, truncates to topK and then
// drops entries at or below the threshold. The threshold is applied
// after truncation, so a query whose best matches are all weak returns
// nothing rather than reaching deeper into the corpus.
func (r *Ranker) Rank(query []float32, chunks []domain.EmbeddedChunk) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		scored = append(scored, domain.ScoredChunk{
			EmbeddedChunk: c,
			Score:         CosineSimilarity(query, c.Embedding),
		})
	}

	// Stable sort keeps corpus order for tied scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > r.topK {
		scored = scored[:r.topK]
	}

	kept := scored[:0]
	for _, s := range scored {
		if s.Score > r.minScore {
			kept = append(kept, s)
		}
	}
	return kept
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths or a zero-magnitude vector yield 0, which ranks
// the pair as unrelated instead of failing the whole query.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
