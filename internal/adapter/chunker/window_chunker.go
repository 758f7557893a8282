package chunker

import "auditrag/internal/domain"

const (
	DefaultSize    = 2000
	DefaultOverlap = 200
)

// WindowChunker splits text into fixed-size overlapping character
// windows tagged with their source document.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker creates a chunker with the given window size and
// overlap in characters (runes). Non-positive values fall back to the
// defaults.
func NewWindowChunker(size, overlap int) *WindowChunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &WindowChunker{size: size, overlap: overlap}
}

// Split walks the text with a sliding window of size characters,
// advancing size-overlap each step; the final window is truncated to
// the text's end. Windows are cut on rune boundaries so multi-byte
// scripts are never split mid-character.
func (c *WindowChunker) Split(text, source string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap

	var chunks []domain.Chunk
	for i := 0; i < len(runes); {
		end := i + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Text:   string(runes[i:end]),
			Source: source,
		})
		if step <= 0 {
			// overlap >= size is a misconfiguration; jump to the window
			// end instead of looping forever.
			i = end
		} else {
			i += step
		}
	}
	return chunks
}
