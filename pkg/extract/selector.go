package extract

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"lexi-legal-be/pkg/embedding"
)

// DefaultTopK is how many chunks the selector joins into context.
const DefaultTopK = 3

// Selector ranks document chunks against a query using one embedding
// model for both sides.
type Selector struct {
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

func NewSelector(embedder embedding.EmbeddingProvider, logger *log.Logger) *Selector {
	return &Selector{
		embedder: embedder,
		logger:   logger,
	}
}

type scoredChunk struct {
	text  string
	score float64
}

// SelectRelevant returns the topK chunks most similar to the query,
// joined by blank lines in descending-relevance order. Relevance order
// beats document order: the most on-topic passages come first.
func (s *Selector) SelectRelevant(chunks []string, query string, topK int) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryRes, err := s.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	scored := make([]scoredChunk, 0, len(chunks))
	for i, chunk := range chunks {
		chunkRes, err := s.embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return "", fmt.Errorf("embed chunk %d: %w", i, err)
		}
		scored = append(scored, scoredChunk{
			text:  chunk,
			score: CosineSimilarity(queryRes.Embedding.Values, chunkRes.Embedding.Values),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if topK > len(scored) {
		topK = len(scored)
	}

	selected := make([]string, topK)
	for i := 0; i < topK; i++ {
		selected[i] = scored[i].text
	}

	s.logger.Printf("[SELECT] Picked %d/%d chunks (best score %.4f)", topK, len(chunks), scored[0].score)

	return strings.Join(selected, "\n\n"), nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
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
