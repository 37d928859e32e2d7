package appointment

import "okada-agent-be/internal/entity"

// Error codes reported to the caller.
const (
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionClosed      = "SESSION_CLOSED"
	CodeStartError         = "WORKFLOW_START_ERROR"
	CodeResponseError      = "RESPONSE_PROCESSING_ERROR"
	CodeConfirmationError  = "CONFIRMATION_ERROR"
	CodeCancellationFailed = "CANCELLATION_ERROR"
)

// Step names.
const (
	StepCollecting   = "collecting_information"
	StepConfirmation = "awaiting_confirmation"
	StepConfirmed    = "appointment_confirmed"
	StepCancelled    = "appointment_cancelled"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Response is what every workflow operation returns. Message is always safe
// to show the user.
type Response struct {
	Success     bool                     `json:"success"`
	Message     string                   `json:"message"`
	SessionID   string                   `json:"session_id,omitempty"`
	StepName    string                   `json:"step_name,omitempty"`
	NextStep    string                   `json:"next_step,omitempty"`
	Status      entity.AppointmentStatus `json:"status,omitempty"`
	Appointment *entity.AppointmentData  `json:"appointment,omitempty"`
	Error       *Error                   `json:"error,omitempty"`
}

func failure(message, code string, err error) Response {
	detail := code
	if err != nil {
		detail = err.Error()
	}
	return Response{
		Success: false,
		Message: message,
		Error:   &Error{Code: code, Message: detail},
	}
}
