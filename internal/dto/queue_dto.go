package dto

import "time"

// PublishIngestFileMessage is queued when a file is attached to a session.
type PublishIngestFileMessage struct {
	SessionId string `json:"session_id"`
	FilePath  string `json:"file_path"`
	FileType  string `json:"file_type"`
}

// PublishTranscriptMessage carries the messages of one finished turn.
type PublishTranscriptMessage struct {
	SessionId string           `json:"session_id"`
	TurnId    string           `json:"turn_id"`
	Messages  []ChatMessageDTO `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
}
