package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"lexi-legal-be/internal/dto"
	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/pkg/logger"
	"lexi-legal-be/internal/repository/memory"
	"lexi-legal-be/internal/repository/specification"
	"lexi-legal-be/internal/repository/unitofwork"
	"lexi-legal-be/pkg/agent"
	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"

	"github.com/google/uuid"
)

var ErrThreadNotFound = errors.New("chat thread not found")

type IChatService interface {
	// Chat runs one turn. Tokens of the answer pass through onToken
	// when supplied.
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, onToken func(token string)) (*dto.ChatResponse, error)
	ListThreads(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error)
	GetMessages(ctx context.Context, userId, threadId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	threadRepo *memory.ThreadRepository
	dispatcher *agent.Dispatcher
	logger     logger.ILogger

	// One in-flight turn per thread. Turns across threads run freely.
	mu          sync.Mutex
	threadLocks map[string]*sync.Mutex
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	threadRepo *memory.ThreadRepository,
	dispatcher *agent.Dispatcher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		threadRepo:  threadRepo,
		dispatcher:  dispatcher,
		logger:      log,
		threadLocks: make(map[string]*sync.Mutex),
	}
}

func (s *chatService) lockThread(threadId string) func() {
	s.mu.Lock()
	lock, ok := s.threadLocks[threadId]
	if !ok {
		lock = &sync.Mutex{}
		s.threadLocks[threadId] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *chatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, onToken func(token string)) (*dto.ChatResponse, error) {
	thread, persisted, err := s.resolveThread(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	unlock := s.lockThread(thread.ID)
	defer unlock()

	answer, err := s.dispatcher.RunTurn(ctx, thread, req.Prompt, req.FilePath, onToken)
	if err != nil {
		return nil, err
	}

	s.threadRepo.Save(thread)

	if err := s.persistTurn(ctx, persisted, req.Prompt, answer, string(thread.Route)); err != nil {
		// The answer was already produced and streamed; a persistence
		// failure is logged, not surfaced.
		s.logger.Error("chat", "failed to persist turn", map[string]interface{}{
			"thread_id": thread.ID,
			"error":     err.Error(),
		})
	}

	return &dto.ChatResponse{
		ThreadId: thread.ID,
		Route:    string(thread.Route),
		Answer:   answer,
	}, nil
}

// resolveThread loads or creates both representations of the thread:
// the persisted ChatThread row and the in-memory state. A missing
// in-memory state is rebuilt from the persisted message log.
func (s *chatService) resolveThread(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*store.Thread, *entity.ChatThread, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ThreadId == "" {
		persisted := &entity.ChatThread{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     threadTitle(req.Prompt),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.ChatThreadRepository().Create(ctx, persisted); err != nil {
			return nil, nil, err
		}
		return store.NewThread(persisted.Id.String(), userId.String()), persisted, nil
	}

	threadId, err := uuid.Parse(req.ThreadId)
	if err != nil {
		return nil, nil, ErrThreadNotFound
	}

	persisted, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if persisted == nil {
		return nil, nil, ErrThreadNotFound
	}

	if cached, ok := s.threadRepo.Get(req.ThreadId); ok {
		return cached, persisted, nil
	}

	// Rebuild from the persisted log
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, nil, err
	}

	thread := store.NewThread(req.ThreadId, userId.String())
	for _, msg := range messages {
		thread.Append(llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return thread, persisted, nil
}

func (s *chatService) persistTurn(ctx context.Context, thread *entity.ChatThread, prompt, answer, route string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	pair := []*entity.ChatMessage{
		{
			Id:        uuid.New(),
			ThreadId:  thread.Id,
			Role:      "user",
			Content:   prompt,
			CreatedAt: now,
		},
		{
			Id:        uuid.New(),
			ThreadId:  thread.Id,
			Role:      "assistant",
			Content:   answer,
			Route:     route,
			CreatedAt: now,
		},
	}
	if err := uow.ChatMessageRepository().CreateBatch(ctx, pair); err != nil {
		return err
	}

	thread.UpdatedAt = now
	if err := uow.ChatThreadRepository().Update(ctx, thread); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *chatService) ListThreads(ctx context.Context, userId uuid.UUID) ([]*dto.ThreadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	threads, err := uow.ChatThreadRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ThreadResponse, len(threads))
	for i, t := range threads {
		out[i] = &dto.ThreadResponse{
			Id:        t.Id,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
	}
	return out, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId, threadId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ChatMessageResponse, len(messages))
	for i, msg := range messages {
		out[i] = &dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Route:     msg.Route,
			CreatedAt: msg.CreatedAt,
		}
	}
	return out, nil
}

func (s *chatService) DeleteThread(ctx context.Context, userId, threadId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	thread, err := uow.ChatThreadRepository().FindOne(ctx,
		specification.ByID{ID: threadId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if thread == nil {
		return ErrThreadNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByThreadId(ctx, threadId); err != nil {
		return err
	}
	if err := uow.ChatThreadRepository().Delete(ctx, threadId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.threadRepo.Delete(threadId.String())
	return nil
}

func threadTitle(prompt string) string {
	const maxTitle = 80
	runes := []rune(prompt)
	if len(runes) <= maxTitle {
		return prompt
	}
	return string(runes[:maxTitle])
}
