package lang

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed concepts.yaml
var builtinConcepts []byte

// ConceptEntry maps one canonical domain concept to its synonyms and
// dialect variants. Entries are ordered: when a variant appears under
// several concepts, the first entry wins during normalization.
type ConceptEntry struct {
	Concept  string   `yaml:"concept"`
	Variants []string `yaml:"variants"`
}

// Dictionary is the static bilingual concept data the relevance gate
// matches against. It is immutable after Load; localization or
// extension is a data-file swap, not a code change.
type Dictionary struct {
	Arabic         []ConceptEntry `yaml:"arabic"`
	English        []ConceptEntry `yaml:"english"`
	ExpansionTerms []string       `yaml:"expansion_terms"`

	// byFirstWord indexes compiled variant word sequences by their first
	// word for the normalization scan.
	byFirstWord map[string][]variantSeq
}

type variantSeq struct {
	words     []string
	canonical string
}

// BuiltinDictionary parses the embedded concepts.yaml.
func BuiltinDictionary() (*Dictionary, error) {
	return parseDictionary(builtinConcepts)
}

// LoadDictionary reads a dictionary from a YAML file, falling back to
// the built-in data when path is empty.
func LoadDictionary(path string) (*Dictionary, error) {
	if path == "" {
		return BuiltinDictionary()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read concepts file: %w", err)
	}
	return parseDictionary(data)
}

func parseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse concepts data: %w", err)
	}
	if len(d.Arabic) == 0 && len(d.English) == 0 {
		return nil, fmt.Errorf("concepts data contains no dictionary entries")
	}
	d.compile()
	return &d, nil
}

// compile builds the variant lookup index. Variants are compared as
// word sequences, so multi-word variants ("key performance indicator")
// and hyphenated ones ("in-house") match across any separator.
func (d *Dictionary) compile() {
	d.byFirstWord = make(map[string][]variantSeq)
	seen := make(map[string]bool)

	add := func(entries []ConceptEntry) {
		for _, entry := range entries {
			canonical := strings.ToLower(entry.Concept)
			for _, variant := range entry.Variants {
				words := splitWords(strings.ToLower(variant))
				if len(words) == 0 {
					continue
				}
				key := strings.Join(words, " ")
				if seen[key] {
					continue // first entry wins
				}
				seen[key] = true
				d.byFirstWord[words[0]] = append(d.byFirstWord[words[0]], variantSeq{
					words:     words,
					canonical: canonical,
				})
			}
		}
	}
	add(d.Arabic)
	add(d.English)

	// Longest sequence first, so "key performance indicator" beats
	// a single-word variant starting with the same word.
	for _, seqs := range d.byFirstWord {
		sort.SliceStable(seqs, func(i, j int) bool {
			return len(seqs[i].words) > len(seqs[j].words)
		})
	}
}

// Normalize lower-cases the query and rewrites every whole-word variant
// occurrence to its canonical concept. Word boundaries are unicode
// letter/digit runs, which also handles Arabic script (ASCII \b word
// boundaries do not).
func (d *Dictionary) Normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	spans := scanWords(lower)

	var b strings.Builder
	pos := 0
	for i := 0; i < len(spans); {
		matched := false
		for _, seq := range d.byFirstWord[spans[i].text] {
			if i+len(seq.words) > len(spans) {
				continue
			}
			ok := true
			for j, w := range seq.words {
				if spans[i+j].text != w {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			b.WriteString(lower[pos:spans[i].start])
			b.WriteString(seq.canonical)
			pos = spans[i+len(seq.words)-1].end
			i += len(seq.words)
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	b.WriteString(lower[pos:])
	return b.String()
}

// ConceptsIn returns the canonical concepts present in the normalized
// text as substrings, in dictionary order, Arabic first.
func (d *Dictionary) ConceptsIn(normalized string) []string {
	var concepts []string
	for _, entry := range d.Arabic {
		if strings.Contains(normalized, entry.Concept) {
			concepts = append(concepts, entry.Concept)
		}
	}
	for _, entry := range d.English {
		if strings.Contains(normalized, strings.ToLower(entry.Concept)) {
			concepts = append(concepts, strings.ToLower(entry.Concept))
		}
	}
	return concepts
}

type wordSpan struct {
	start int
	end   int
	text  string
}

// scanWords returns the letter/digit runs of s with their byte offsets.
func scanWords(s string) []wordSpan {
	var spans []wordSpan
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, wordSpan{start: start, end: i, text: s[start:i]})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, wordSpan{start: start, end: len(s), text: s[start:]})
	}
	return spans
}

// splitWords returns just the word texts of s.
func splitWords(s string) []string {
	spans := scanWords(s)
	words := make([]string, len(spans))
	for i, sp := range spans {
		words[i] = sp.text
	}
	return words
}
