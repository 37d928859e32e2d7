package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RecommendationPreferences struct {
	BudgetOperator string  `json:"budget_operator,omitempty"`
	BudgetAmount   float64 `json:"budget_amount,omitempty"`
	Location       string  `json:"location,omitempty"`
}

type RecommendationSession struct {
	Id                     uuid.UUID                                     `gorm:"type:uuid;primaryKey"`
	UserId                 string                                        `gorm:"type:varchar(128);not null;index"`
	Query                  string                                        `gorm:"type:text"`
	Preferences            datatypes.JSONType[RecommendationPreferences] `gorm:"type:json"`
	RecommendedPropertyIds datatypes.JSONSlice[string]                   `gorm:"type:json"`
	Response               string                                        `gorm:"type:text"`
	CreatedAt              time.Time                                     `gorm:"autoCreateTime"`
	UpdatedAt              time.Time                                     `gorm:"autoUpdateTime"`
}

func (RecommendationSession) TableName() string {
	return "recommendation_sessions"
}
