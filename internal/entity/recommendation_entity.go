package entity

import (
	"time"

	"github.com/google/uuid"
)

type RecommendationPreferences struct {
	BudgetOperator string
	BudgetAmount   float64
	Location       string
}

type RecommendationSession struct {
	Id                     uuid.UUID
	UserId                 string
	Query                  string
	Preferences            RecommendationPreferences
	RecommendedPropertyIds []string
	Response               string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
