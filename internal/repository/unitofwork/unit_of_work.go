package unitofwork

import (
	"context"

	"okada-agent-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentChunkRepository() contract.DocumentChunkRepository
	AppointmentSessionRepository() contract.AppointmentSessionRepository
	RecommendationSessionRepository() contract.RecommendationSessionRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	PropertyRepository() contract.PropertyRepository
}
