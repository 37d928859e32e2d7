package implementation

import (
	"context"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/mapper"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PropertyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PropertyMapper
}

func NewPropertyRepository(db *gorm.DB) contract.PropertyRepository {
	return &PropertyRepositoryImpl{
		db:     db,
		mapper: mapper.NewPropertyMapper(),
	}
}

func (r *PropertyRepositoryImpl) CreateBulk(ctx context.Context, properties []*entity.Property) error {
	if len(properties) == 0 {
		return nil
	}
	models := make([]*model.Property, len(properties))
	for i, p := range properties {
		models[i] = r.mapper.ToModel(p)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*properties[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PropertyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Property, error) {
	var models []*model.Property
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PropertyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Property{}).Count(&count).Error
	return count, err
}

func (r *PropertyRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Property{}).Error
}
