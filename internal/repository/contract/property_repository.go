package contract

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
)

type PropertyRepository interface {
	CreateBulk(ctx context.Context, properties []*entity.Property) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Property, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAll(ctx context.Context) error
}
