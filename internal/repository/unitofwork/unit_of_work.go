package unitofwork

import (
	"context"

	"lexi-legal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatThreadRepository() contract.ChatThreadRepository
	ChatMessageRepository() contract.ChatMessageRepository
	KnowledgeRepository() contract.KnowledgeRepository
}
