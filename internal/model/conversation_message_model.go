package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId string    `gorm:"type:varchar(128);not null;index:idx_conversation_session_order,priority:1"`
	TurnId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null;index:idx_conversation_session_order,priority:3"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Kind      string    `gorm:"type:varchar(16);not null;default:'chat'"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_conversation_session_order,priority:2"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
