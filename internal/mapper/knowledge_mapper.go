package mapper

import (
	"encoding/json"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &metadata)
	}

	return &entity.KnowledgeDocument{
		Id:        d.Id,
		Domain:    d.Domain,
		Source:    d.Source,
		Text:      d.Text,
		Metadata:  metadata,
		Embedding: d.Embedding.Slice(),
		CreatedAt: d.CreatedAt,
	}
}

func (m *KnowledgeMapper) ToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}

	var metadata datatypes.JSON
	if d.Metadata != nil {
		raw, err := json.Marshal(d.Metadata)
		if err == nil {
			metadata = raw
		}
	}

	return &model.KnowledgeDocument{
		Id:        d.Id,
		Domain:    d.Domain,
		Source:    d.Source,
		Text:      d.Text,
		Metadata:  metadata,
		Embedding: pgvector.NewVector(d.Embedding),
		CreatedAt: d.CreatedAt,
	}
}

func (m *KnowledgeMapper) ToEntities(docs []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
