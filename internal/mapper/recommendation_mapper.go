package mapper

import (
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"

	"gorm.io/datatypes"
)

type RecommendationMapper struct{}

func NewRecommendationMapper() *RecommendationMapper {
	return &RecommendationMapper{}
}

func (m *RecommendationMapper) ToEntity(s *model.RecommendationSession) *entity.RecommendationSession {
	if s == nil {
		return nil
	}
	prefs := s.Preferences.Data()
	return &entity.RecommendationSession{
		Id:     s.Id,
		UserId: s.UserId,
		Query:  s.Query,
		Preferences: entity.RecommendationPreferences{
			BudgetOperator: prefs.BudgetOperator,
			BudgetAmount:   prefs.BudgetAmount,
			Location:       prefs.Location,
		},
		RecommendedPropertyIds: append([]string(nil), s.RecommendedPropertyIds...),
		Response:               s.Response,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (m *RecommendationMapper) ToModel(s *entity.RecommendationSession) *model.RecommendationSession {
	if s == nil {
		return nil
	}
	ids := s.RecommendedPropertyIds
	if ids == nil {
		ids = []string{}
	}
	return &model.RecommendationSession{
		Id:     s.Id,
		UserId: s.UserId,
		Query:  s.Query,
		Preferences: datatypes.NewJSONType(model.RecommendationPreferences{
			BudgetOperator: s.Preferences.BudgetOperator,
			BudgetAmount:   s.Preferences.BudgetAmount,
			Location:       s.Preferences.Location,
		}),
		RecommendedPropertyIds: datatypes.NewJSONSlice(ids),
		Response:               s.Response,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
