package implementation

import (
	"context"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/mapper"
	"lexi-legal-be/internal/model"
	"lexi-legal-be/internal/repository/contract"
	"lexi-legal-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeRepositoryImpl) Create(ctx context.Context, doc *entity.KnowledgeDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) CreateBatch(ctx context.Context, docs []*entity.KnowledgeDocument) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeDocument, len(docs))
	for i, d := range docs {
		models[i] = r.mapper.ToModel(d)
	}
	return r.db.WithContext(ctx).CreateInBatches(&models, 100).Error
}

func (r *KnowledgeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.KnowledgeDocument{}).Error
}

func (r *KnowledgeRepositoryImpl) DeleteByDomain(ctx context.Context, domain string) error {
	return r.db.WithContext(ctx).Where("domain = ?", domain).Delete(&model.KnowledgeDocument{}).Error
}

func (r *KnowledgeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilar orders by pgvector cosine distance: embedding <=> query
func (r *KnowledgeRepositoryImpl) SearchSimilar(ctx context.Context, domain string, embedding []float32, k int) ([]*entity.KnowledgeDocument, error) {
	var models []*model.KnowledgeDocument

	err := r.db.WithContext(ctx).
		Where("domain = ?", domain).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
