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

type RecommendationSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecommendationMapper
}

func NewRecommendationSessionRepository(db *gorm.DB) contract.RecommendationSessionRepository {
	return &RecommendationSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecommendationMapper(),
	}
}

func (r *RecommendationSessionRepositoryImpl) Upsert(ctx context.Context, session *entity.RecommendationSession) error {
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

func (r *RecommendationSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationSession, error) {
	var m model.RecommendationSession
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
