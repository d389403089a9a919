// Package vectorstore abstracts the per-domain knowledge bases. Each
// domain (statutes, procedures) is a named collection searched by
// embedding similarity.
package vectorstore

import "context"

// Document is one knowledge-base entry.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// ScoredDocument is a search hit with its cosine similarity.
type ScoredDocument struct {
	Document
	Score float32
}

type Store interface {
	// Add upserts documents with precomputed embeddings, aligned by index.
	Add(ctx context.Context, docs []Document, embeddings [][]float32) error

	// SimilaritySearch returns the k nearest documents to the query
	// embedding, most similar first.
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]ScoredDocument, error)
}
