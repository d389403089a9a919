// Package vector adapts the relational knowledge repository to the
// vectorstore.Store contract so retrieval can run against Postgres
// instead of the embedded store.
package vector

import (
	"context"
	"fmt"
	"time"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/repository/contract"
	"lexi-legal-be/pkg/extract"
	"lexi-legal-be/pkg/vectorstore"

	"github.com/google/uuid"
)

type PgVectorStore struct {
	repo   contract.KnowledgeRepository
	domain string
}

func NewPgVectorStore(repo contract.KnowledgeRepository, domain string) *PgVectorStore {
	return &PgVectorStore{
		repo:   repo,
		domain: domain,
	}
}

func (s *PgVectorStore) Add(ctx context.Context, docs []vectorstore.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, doc := range docs {
		metadata := make(map[string]interface{}, len(doc.Metadata))
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		entities[i] = &entity.KnowledgeDocument{
			Id:        uuid.New(),
			Domain:    s.domain,
			Source:    doc.Metadata["source"],
			Text:      doc.Text,
			Metadata:  metadata,
			Embedding: embeddings[i],
			CreatedAt: time.Now(),
		}
	}

	return s.repo.CreateBatch(ctx, entities)
}

func (s *PgVectorStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]vectorstore.ScoredDocument, error) {
	found, err := s.repo.SearchSimilar(ctx, s.domain, queryEmbedding, k)
	if err != nil {
		return nil, err
	}

	results := make([]vectorstore.ScoredDocument, len(found))
	for i, doc := range found {
		metadata := make(map[string]string, len(doc.Metadata))
		for key, value := range doc.Metadata {
			metadata[key] = fmt.Sprintf("%v", value)
		}
		results[i] = vectorstore.ScoredDocument{
			Document: vectorstore.Document{
				ID:       doc.Id.String(),
				Text:     doc.Text,
				Metadata: metadata,
			},
			Score: float32(extract.CosineSimilarity(queryEmbedding, doc.Embedding)),
		}
	}
	return results, nil
}
