package contract

import (
	"context"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	CreateBatch(ctx context.Context, docs []*entity.KnowledgeDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDomain(ctx context.Context, domain string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar returns the k nearest documents of one domain by
	// cosine distance to the query embedding.
	SearchSimilar(ctx context.Context, domain string, embedding []float32, k int) ([]*entity.KnowledgeDocument, error)
}
