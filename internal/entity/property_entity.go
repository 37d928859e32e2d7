package entity

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	Id                uuid.UUID
	Address           string
	Floor             string
	Suite             string
	SizeSf            int
	RentPerSfYear     float64
	MonthlyRent       float64
	AnnualRent        float64
	AssignedAssociate string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
