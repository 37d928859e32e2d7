package classifier

import "time"

type MessageType string

const (
	Greeting            MessageType = "greeting"
	ThankYou            MessageType = "thank_you"
	HelpRequest         MessageType = "help_request"
	PropertySearch      MessageType = "property_search"
	DirectPropertyQuery MessageType = "direct_property_query"
	AppointmentRequest  MessageType = "appointment_request"
	Conversational      MessageType = "conversational"
	Unknown             MessageType = "unknown"
)

type ProcessingStrategy string

const (
	QuickResponse       ProcessingStrategy = "quick_response"
	DirectSearch        ProcessingStrategy = "direct_search"
	PropertyWorkflow    ProcessingStrategy = "property_workflow"
	AppointmentWorkflow ProcessingStrategy = "appointment_workflow"
	MaintenanceWorkflow ProcessingStrategy = "maintenance_workflow"
	FallbackResponse    ProcessingStrategy = "fallback_response"
)

// Classification is the result of a fast, pattern-only pass over a message.
type Classification struct {
	MessageType           MessageType        `json:"message_type"`
	Confidence            float64            `json:"confidence"`
	ProcessingStrategy    ProcessingStrategy `json:"processing_strategy"`
	RequiresIndex         bool               `json:"requires_index"`
	EstimatedResponseTime time.Duration      `json:"estimated_response_time"`
	Reasoning             string             `json:"reasoning"`
}

// UserContext carries optional hints about the caller. It only affects the
// response time estimate.
type UserContext struct {
	PreviousInteractions int
	HasPreferences       bool
}
