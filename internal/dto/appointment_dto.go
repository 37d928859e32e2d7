package dto

import "time"

type StartAppointmentRequest struct {
	UserId      string `json:"user_id" validate:"required,max=128"`
	Message     string `json:"message" validate:"required,max=4000"`
	Maintenance bool   `json:"maintenance"`
}

type ContinueAppointmentRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type AppointmentDataDTO struct {
	Title           string     `json:"title"`
	Location        string     `json:"location"`
	Date            *time.Time `json:"date,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	AttendeeEmails  []string   `json:"attendee_emails"`
	Description     string     `json:"description,omitempty"`
	OrganizerEmail  string     `json:"organizer_email,omitempty"`
}

type AppointmentErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AppointmentResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	SessionId   string               `json:"session_id,omitempty"`
	StepName    string               `json:"step_name,omitempty"`
	NextStep    string               `json:"next_step,omitempty"`
	Status      string               `json:"status,omitempty"`
	Appointment *AppointmentDataDTO  `json:"appointment,omitempty"`
	Error       *AppointmentErrorDTO `json:"error,omitempty"`
}
