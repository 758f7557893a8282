package port

import "auditrag/internal/domain"

// ConceptAnalyzer is the relevance gate: it decides whether a query is
// within the audit domain using only static dictionary matching, so
// out-of-domain queries are rejected before any paid backend call.
type ConceptAnalyzer interface {
	Analyze(query string) domain.ConceptAnalysis
}

// QueryExpander rewrites a zero-concept query to widen retrieval recall
// and passes concept-matched queries through unchanged.
type QueryExpander interface {
	Expand(query string) domain.ExpandedQuery
}
