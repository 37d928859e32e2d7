package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationMessage struct {
	Id        uuid.UUID
	SessionId string
	TurnId    uuid.UUID
	Position  int
	Role      string
	Kind      string
	Content   string
	CreatedAt time.Time
}
