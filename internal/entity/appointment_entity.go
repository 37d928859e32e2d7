package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentPending        AppointmentStatus = "pending"
	AppointmentCollectingInfo AppointmentStatus = "collecting_info"
	AppointmentConfirming     AppointmentStatus = "confirming"
	AppointmentConfirmed      AppointmentStatus = "confirmed"
	AppointmentCancelled      AppointmentStatus = "cancelled"
	AppointmentCompleted      AppointmentStatus = "completed"
)

// IsActive reports whether the workflow still expects user input.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentCollectingInfo || s == AppointmentConfirming
}

const (
	ConfirmationConfirmed = "confirmed"
	ConfirmationCancelled = "cancelled"
)

type AppointmentData struct {
	Title                string     `json:"title"`
	Location             string     `json:"location"`
	Date                 *time.Time `json:"date,omitempty"`
	DurationMinutes      int        `json:"duration_minutes"`
	AttendeeEmails       []string   `json:"attendee_emails"`
	Description          string     `json:"description"`
	OrganizerEmail       string     `json:"organizer_email,omitempty"`
	ConfirmationResponse string     `json:"confirmation_response,omitempty"`
}

type AppointmentHistoryEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type AppointmentSession struct {
	Id                  uuid.UUID
	UserId              string
	Status              AppointmentStatus
	CollectedData       AppointmentData
	MissingFields       []string
	ConversationHistory []AppointmentHistoryEntry
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
