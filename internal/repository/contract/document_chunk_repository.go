package contract

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
)

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteBySessionId(ctx context.Context, sessionId string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the chunks of one session closest to embedding,
	// most similar first. It never looks outside sessionId.
	SearchSimilar(ctx context.Context, sessionId string, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error)
}
