package contract

import (
	"context"

	"okada-agent-be/pkg/agent"
)

// SessionHistoryStore keeps the ordered chat history of a session.
type SessionHistoryStore interface {
	Load(ctx context.Context, sessionId string) ([]agent.Message, error)
	// Append adds all messages in one atomic write.
	Append(ctx context.Context, sessionId string, messages ...agent.Message) error
	Clear(ctx context.Context, sessionId string) error
}

// SessionFileStore tracks the file attached to a session.
type SessionFileStore interface {
	GetSessionFileInfo(ctx context.Context, sessionId string) (*agent.FileInfo, error)
	SetSessionFileInfo(ctx context.Context, sessionId string, info agent.FileInfo) error
	DeleteSessionFileInfo(ctx context.Context, sessionId string) error
}
