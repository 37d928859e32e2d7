package contract

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
)

type AppointmentSessionRepository interface {
	// Upsert inserts the session or overwrites the stored row with the same id.
	Upsert(ctx context.Context, session *entity.AppointmentSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AppointmentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AppointmentSession, error)
}
