package lang

import (
	"unicode"

	"auditrag/internal/domain"
)

// Analyzer is the relevance gate. It is purely dictionary-based so an
// out-of-domain query can be rejected before any paid embedding or
// generation call is made.
type Analyzer struct {
	dict *Dictionary
}

func NewAnalyzer(dict *Dictionary) *Analyzer {
	return &Analyzer{dict: dict}
}

// Analyze normalizes the query against the concept dictionaries and
// reports whether it is audit-related. Language detection is
// informational only and does not affect gating.
func (a *Analyzer) Analyze(query string) domain.ConceptAnalysis {
	normalized := a.dict.Normalize(query)
	concepts := a.dict.ConceptsIn(normalized)

	return domain.ConceptAnalysis{
		Original:     query,
		Normalized:   normalized,
		Language:     DetectLanguage(query),
		Concepts:     concepts,
		AuditRelated: len(concepts) > 0,
	}
}

// DetectLanguage classifies a text by character class: Arabic-range
// code points vs. Latin letters.
func DetectLanguage(text string) domain.Language {
	var hasArabic, hasLatin bool
	for _, r := range text {
		switch {
		case isArabicRune(r):
			hasArabic = true
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLatin = true
		}
		if hasArabic && hasLatin {
			return domain.LanguageMixed
		}
	}
	switch {
	case hasArabic:
		return domain.LanguageArabic
	case hasLatin:
		return domain.LanguageEnglish
	default:
		return domain.LanguageUnknown
	}
}

var arabicRanges = &unicode.RangeTable{R16: []unicode.Range16{
	{Lo: 0x0600, Hi: 0x06FF, Stride: 1}, // Arabic
	{Lo: 0x0750, Hi: 0x077F, Stride: 1}, // Arabic Supplement
	{Lo: 0x08A0, Hi: 0x08FF, Stride: 1}, // Arabic Extended-A
	{Lo: 0xFB50, Hi: 0xFDFF, Stride: 1}, // Presentation Forms-A
	{Lo: 0xFE70, Hi: 0xFEFF, Stride: 1}, // Presentation Forms-B
}}

func isArabicRune(r rune) bool {
	return unicode.Is(arabicRanges, r)
}
