package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ids are generated client side so the schema works on both postgres and sqlite.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *DocumentChunk) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

func (m *AppointmentSession) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

func (m *RecommendationSession) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

func (m *ConversationMessage) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

func (m *Property) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
