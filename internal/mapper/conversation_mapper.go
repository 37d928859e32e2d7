package mapper

import (
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.ConversationMessage) *entity.ConversationMessage {
	if c == nil {
		return nil
	}
	return &entity.ConversationMessage{
		Id:        c.Id,
		SessionId: c.SessionId,
		TurnId:    c.TurnId,
		Position:  c.Position,
		Role:      c.Role,
		Kind:      c.Kind,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.ConversationMessage) *model.ConversationMessage {
	if c == nil {
		return nil
	}
	return &model.ConversationMessage{
		Id:        c.Id,
		SessionId: c.SessionId,
		TurnId:    c.TurnId,
		Position:  c.Position,
		Role:      c.Role,
		Kind:      c.Kind,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
