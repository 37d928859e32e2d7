package model

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Address           string    `gorm:"type:text;not null;index"`
	Floor             string    `gorm:"type:varchar(32)"`
	Suite             string    `gorm:"type:varchar(32)"`
	SizeSf            int       `gorm:"default:0"`
	RentPerSfYear     float64   `gorm:"default:0"`
	MonthlyRent       float64   `gorm:"default:0;index"`
	AnnualRent        float64   `gorm:"default:0"`
	AssignedAssociate string    `gorm:"type:text"`
	Description       string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Property) TableName() string {
	return "properties"
}
