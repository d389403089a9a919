// Package rerank scores (query, document) pairs with a cross-encoder
// model, applied after the initial similarity search.
package rerank

import "context"

type Scorer interface {
	// Score returns one relevance score per document, aligned by index.
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}
