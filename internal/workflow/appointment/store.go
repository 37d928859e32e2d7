package appointment

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// SessionStore persists workflow sessions. Load and FindActive return nil
// without an error when nothing matches. Save must upsert.
type SessionStore interface {
	Load(ctx context.Context, id uuid.UUID) (*entity.AppointmentSession, error)
	Save(ctx context.Context, session *entity.AppointmentSession) error
	FindActive(ctx context.Context, userID string) (*entity.AppointmentSession, error)
}

type repositoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRepositoryStore(uowFactory unitofwork.RepositoryFactory) SessionStore {
	return &repositoryStore{uowFactory: uowFactory}
}

func (s *repositoryStore) Load(ctx context.Context, id uuid.UUID) (*entity.AppointmentSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AppointmentSessionRepository().FindOne(ctx, specification.ByID{ID: id})
}

func (s *repositoryStore) Save(ctx context.Context, session *entity.AppointmentSession) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AppointmentSessionRepository().Upsert(ctx, session)
}

func (s *repositoryStore) FindActive(ctx context.Context, userID string) (*entity.AppointmentSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AppointmentSessionRepository().FindOne(ctx,
		specification.ByUserID{UserID: userID},
		specification.ByStatuses{Statuses: []string{
			string(entity.AppointmentCollectingInfo),
			string(entity.AppointmentConfirming),
		}},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
}
