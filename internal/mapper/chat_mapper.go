package mapper

import (
	"lexi-legal-be/internal/entity"
	"lexi-legal-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ThreadToEntity(t *model.ChatThread) *entity.ChatThread {
	if t == nil {
		return nil
	}
	return &entity.ChatThread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *ChatMapper) ThreadToModel(t *entity.ChatThread) *model.ChatThread {
	if t == nil {
		return nil
	}
	return &model.ChatThread{
		Id:        t.Id,
		UserId:    t.UserId,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *ChatMapper) ThreadsToEntities(threads []*model.ChatThread) []*entity.ChatThread {
	entities := make([]*entity.ChatThread, len(threads))
	for i, t := range threads {
		entities[i] = m.ThreadToEntity(t)
	}
	return entities
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Role:      msg.Role,
		Content:   msg.Content,
		Route:     msg.Route,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        msg.Id,
		ThreadId:  msg.ThreadId,
		Role:      msg.Role,
		Content:   msg.Content,
		Route:     msg.Route,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
