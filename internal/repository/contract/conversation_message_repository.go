package contract

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
)

type ConversationMessageRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.ConversationMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
}
