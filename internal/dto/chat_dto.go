package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	ThreadId string `json:"thread_id"`
	Prompt   string `json:"prompt" validate:"required"`
	// FilePath points at an already-uploaded document to attach to
	// this turn.
	FilePath string `json:"file_path"`
}

type ChatResponse struct {
	ThreadId string `json:"thread_id"`
	Route    string `json:"route"`
	Answer   string `json:"answer"`
}

type ThreadResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Route     string    `json:"route,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
