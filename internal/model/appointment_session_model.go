package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AppointmentData is stored as a single JSON column.
type AppointmentData struct {
	Title                string     `json:"title,omitempty"`
	Location             string     `json:"location,omitempty"`
	Date                 *time.Time `json:"date,omitempty"`
	DurationMinutes      int        `json:"duration_minutes,omitempty"`
	AttendeeEmails       []string   `json:"attendee_emails,omitempty"`
	Description          string     `json:"description,omitempty"`
	OrganizerEmail       string     `json:"organizer_email,omitempty"`
	ConfirmationResponse string     `json:"confirmation_response,omitempty"`
}

type AppointmentHistoryEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type AppointmentSession struct {
	Id                  uuid.UUID                                    `gorm:"type:uuid;primaryKey"`
	UserId              string                                       `gorm:"type:varchar(128);not null;index"`
	Status              string                                       `gorm:"type:varchar(32);not null;index"`
	CollectedData       datatypes.JSONType[AppointmentData]          `gorm:"type:json"`
	MissingFields       datatypes.JSONSlice[string]                  `gorm:"type:json"`
	ConversationHistory datatypes.JSONSlice[AppointmentHistoryEntry] `gorm:"type:json"`
	CreatedAt           time.Time                                    `gorm:"autoCreateTime"`
	UpdatedAt           time.Time                                    `gorm:"autoUpdateTime"`
}

func (AppointmentSession) TableName() string {
	return "appointment_sessions"
}
