package contract

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
)

type RecommendationSessionRepository interface {
	Upsert(ctx context.Context, session *entity.RecommendationSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationSession, error)
}
