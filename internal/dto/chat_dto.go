package dto

import "time"

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
	Kind    string `json:"kind,omitempty"`
}

// SendChatRequest is one user turn. Messages is optional: when given it
// replaces the stored history for this turn, mirroring the stateless form
// of the turn contract.
type SendChatRequest struct {
	SessionId    string           `json:"session_id" validate:"required,max=128"`
	Message      string           `json:"message" validate:"required,max=8000"`
	UseRAG       bool             `json:"use_rag"`
	UseWebSearch bool             `json:"use_web_search"`
	Messages     []ChatMessageDTO `json:"messages,omitempty" validate:"omitempty,dive"`
}

type SendChatResponse struct {
	SessionId   string               `json:"session_id"`
	Strategy    string               `json:"strategy"`
	MessageType string               `json:"message_type"`
	Confidence  float64              `json:"confidence"`
	Path        []string             `json:"path,omitempty"`
	Replies     []ChatMessageDTO     `json:"replies"`
	Messages    []ChatMessageDTO     `json:"messages"`
	Appointment *AppointmentResponse `json:"appointment,omitempty"`
}

type ChatHistoryResponse struct {
	Id        string    `json:"id"`
	TurnId    string    `json:"turn_id"`
	Role      string    `json:"role"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// LiveChatFrame is a websocket frame in either direction.
type LiveChatFrame struct {
	Type         string            `json:"type"`
	Message      string            `json:"message,omitempty"`
	UseRAG       bool              `json:"use_rag,omitempty"`
	UseWebSearch bool              `json:"use_web_search,omitempty"`
	Data         *SendChatResponse `json:"data,omitempty"`
	Error        string            `json:"error,omitempty"`
}
