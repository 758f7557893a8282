package lang

import (
	"strings"

	"auditrag/internal/domain"
)

// Expander widens retrieval recall for queries that matched no domain
// concept by appending the dictionary's core bilingual terms. Expansion
// does not satisfy the relevance gate: an expanded query is still not
// audit-related, and the caller decides whether to proceed.
type Expander struct {
	analyzer *Analyzer
}

func NewExpander(analyzer *Analyzer) *Expander {
	return &Expander{analyzer: analyzer}
}

func (e *Expander) Expand(query string) domain.ExpandedQuery {
	analysis := e.analyzer.Analyze(query)

	if len(analysis.Concepts) == 0 {
		return domain.ExpandedQuery{
			Analysis: analysis,
			Enhanced: query + " " + strings.Join(e.analyzer.dict.ExpansionTerms, " "),
			Strategy: domain.StrategyExpanded,
		}
	}

	return domain.ExpandedQuery{
		Analysis: analysis,
		Enhanced: query,
		Strategy: domain.StrategyConceptBased,
	}
}
