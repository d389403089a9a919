package extract

// Default chunking parameters for uploaded documents.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Separators in preference order: paragraph, line, sentence, word. An
// empty separator means a hard cut at the size limit.
var chunkSeparators = []string{"\n\n", "\n", ".", " "}

// ChunkText splits text into segments of at most size characters,
// cutting at the largest boundary available inside each window.
// Consecutive segments overlap by overlap characters so no sentence is
// fully lost at a boundary.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := findCut(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			// Overlap would stall the walk; advance past the cut instead.
			next = cut
		}
		start = next
	}

	return chunks
}

// findCut returns the position after the last occurrence of the highest
// priority separator inside (start, end]. Falls back to a hard cut at
// end when the window contains no separator at all.
func findCut(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, sep := range chunkSeparators {
		if idx := lastIndexRunes(window, sep); idx > 0 {
			return start + idx + len([]rune(sep))
		}
	}
	return end
}

func lastIndexRunes(window, sep string) int {
	wr := []rune(window)
	sr := []rune(sep)
	for i := len(wr) - len(sr); i >= 0; i-- {
		match := true
		for j := range sr {
			if wr[i+j] != sr[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
