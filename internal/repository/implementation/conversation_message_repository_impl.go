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

type ConversationMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationMessageRepository(db *gorm.DB) contract.ConversationMessageRepository {
	return &ConversationMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationMessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.ConversationMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.ConversationMessage, len(messages))
	for i, m := range messages {
		models[i] = r.mapper.ToModel(m)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ConversationMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	var models []*model.ConversationMessage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
