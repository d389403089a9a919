package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeDocument struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Domain    string          `gorm:"type:varchar(50);not null;index"`
	Source    string          `gorm:"type:varchar(512)"`
	Text      string          `gorm:"type:text;not null"`
	Metadata  datatypes.JSON
	Embedding pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
