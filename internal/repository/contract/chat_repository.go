package contract

import (
	"context"

	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatThreadRepository interface {
	Create(ctx context.Context, thread *entity.ChatThread) error
	Update(ctx context.Context, thread *entity.ChatThread) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatThread, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatThread, error)
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteByThreadId(ctx context.Context, threadId uuid.UUID) error
}
