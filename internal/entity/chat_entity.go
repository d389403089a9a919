package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatThread struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatMessage struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	Role      string // "user" | "assistant" | "system"
	Content   string
	Route     string // routing decision recorded on assistant turns
	CreatedAt time.Time
}
