package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is one indexed passage of a knowledge base. Domain
// separates the independent collections ("laws_db", "procedures_db").
type KnowledgeDocument struct {
	Id        uuid.UUID
	Domain    string
	Source    string
	Text      string
	Metadata  map[string]interface{}
	Embedding []float32
	CreatedAt time.Time
}
