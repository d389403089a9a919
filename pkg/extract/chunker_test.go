package extract

import (
	"strings"
	"testing"
)

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short text", 1000, 100)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("chunk = %q, want input unchanged", chunks[0])
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	if chunks := ChunkText("", 1000, 100); chunks != nil {
		t.Errorf("chunks = %v, want nil for empty input", chunks)
	}
}

func TestChunkTextSizeBound(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	chunks := ChunkText(text, 1000, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 1000 {
			t.Errorf("chunk %d length = %d, want <= 1000", i, n)
		}
	}
}

func TestChunkTextPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 400)
	para2 := strings.Repeat("b", 400)
	para3 := strings.Repeat("c", 400)
	text := para1 + "\n\n" + para2 + "\n\n" + para3

	chunks := ChunkText(text, 1000, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The first cut should land on the paragraph break, not mid-run.
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("first chunk should end at a paragraph boundary, got suffix %q",
			chunks[0][len(chunks[0])-5:])
	}
}

// Every rune of the input must appear in some chunk: strip the overlap
// and the concatenation reconstructs the original.
func TestChunkTextCoversInput(t *testing.T) {
	text := strings.Repeat("Sentence one is here. Sentence two follows it. ", 120)

	chunks := ChunkText(text, 500, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Walk the original text and verify each chunk starts inside what we
	// have already covered (overlap) and extends coverage.
	covered := 0
	runes := []rune(text)
	for i, chunk := range chunks {
		cr := []rune(chunk)
		start := covered - 50
		if start < 0 {
			start = 0
		}
		found := -1
		for pos := start; pos <= covered && pos+len(cr) <= len(runes); pos++ {
			if string(runes[pos:pos+len(cr)]) == chunk {
				found = pos
				break
			}
		}
		if found == -1 {
			t.Fatalf("chunk %d does not continue coverage (covered=%d)", i, covered)
		}
		if end := found + len(cr); end > covered {
			covered = end
		}
	}
	if covered != len(runes) {
		t.Errorf("covered %d of %d runes", covered, len(runes))
	}
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("word ", 500)

	chunks := ChunkText(text, 200, 40)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-20:])
		if !strings.Contains(chunks[i], strings.TrimSpace(tail)) &&
			!strings.HasPrefix(chunks[i], tail) {
			// The next chunk starts overlap runes before the previous cut,
			// so the previous tail must reappear.
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestChunkTextHardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 2500)

	chunks := ChunkText(text, 1000, 100)
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 1000 {
			t.Errorf("chunk %d length = %d, want <= 1000", i, n)
		}
	}
	joined := strings.Join(chunks, "")
	if !strings.Contains(joined, text[:1000]) {
		t.Error("hard-cut chunks lost input content")
	}
}
