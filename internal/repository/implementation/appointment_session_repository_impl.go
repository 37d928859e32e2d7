package implementation

import (
	"context"
	"errors"
	"time"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/mapper"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AppointmentMapper
}

func NewAppointmentSessionRepository(db *gorm.DB) contract.AppointmentSessionRepository {
	return &AppointmentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAppointmentMapper(),
	}
}

func (r *AppointmentSessionRepositoryImpl) Upsert(ctx context.Context, session *entity.AppointmentSession) error {
	m := r.mapper.ToModel(session)
	m.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AppointmentSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AppointmentSession, error) {
	var m model.AppointmentSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AppointmentSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AppointmentSession, error) {
	var models []*model.AppointmentSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AppointmentSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
