package domain

// Language is the detected character-class language of a query.
type Language string

const (
	LanguageArabic  Language = "arabic"
	LanguageEnglish Language = "english"
	LanguageMixed   Language = "mixed"
	LanguageUnknown Language = "unknown"
)

// SearchStrategy describes how a query was prepared for retrieval.
type SearchStrategy string

const (
	StrategyConceptBased SearchStrategy = "concept-based"
	StrategyExpanded     SearchStrategy = "expanded"
)

// RawDocument is one document delivered by a document source, already
// converted to plain text.
type RawDocument struct {
	Name     string
	MimeType string
	Text     string
}

// Chunk is a bounded window of a source document.
type Chunk struct {
	Text   string
	Source string
}

// EmbeddedChunk is a chunk with its embedding vector. A chunk whose
// embedding failed carries a zero vector of the configured dimension so
// it stays in the index and scores 0 against every query.
type EmbeddedChunk struct {
	Chunk
	Embedding []float32
}

// ScoredChunk is an embedded chunk with its cosine similarity to the
// current query embedding. It only exists within one ranking call.
type ScoredChunk struct {
	EmbeddedChunk
	Score float64
}

// ConceptAnalysis is the relevance gate's view of a query. It is derived
// purely from the query text and the static concept dictionaries.
type ConceptAnalysis struct {
	Original     string
	Normalized   string
	Language     Language
	Concepts     []string
	AuditRelated bool
}

// ExpandedQuery is the query expander's output: the query to retrieve
// with, plus the analysis that produced it. Expansion widens retrieval
// but does not make an out-of-domain query audit-related.
type ExpandedQuery struct {
	Analysis ConceptAnalysis
	Enhanced string
	Strategy SearchStrategy
}
