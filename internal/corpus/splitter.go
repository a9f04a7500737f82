package corpus

import "strings"

// Default splitter parameters, chosen to keep chunks small enough for
// embedding while preserving enough context for retrieval.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter cuts source text into overlapping character chunks, preferring to
// break at paragraph, sentence, or word boundaries. Splitting is
// deterministic: the same input always yields the same chunks, so
// re-ingestion of unchanged sources rebuilds an identical index.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a Splitter with the given chunk size and overlap.
// Non-positive sizes fall back to the defaults; the overlap is capped below
// half the chunk size so chunk starts always advance.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize/2 {
		chunkOverlap = chunkSize / 2
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// boundary separators in preference order
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into overlapping chunks. Whitespace-only input yields no
// chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = s.breakPoint(text, start, end)
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}
		next := end - s.chunkOverlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// breakPoint finds the best cut position in text[start:limit], scanning the
// back half of the window for the highest-preference separator. Falls back to
// the hard limit when the window has no separator at all.
func (s *Splitter) breakPoint(text string, start, limit int) int {
	windowStart := start + s.chunkSize/2
	window := text[windowStart:limit]
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return windowStart + i + len(sep)
		}
	}
	return limit
}
