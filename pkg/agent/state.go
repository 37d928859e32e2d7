package agent

import (
	"path/filepath"
	"strings"

	"okada-agent-be/pkg/classifier"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind separates conversational turns from visible router notices.
type MessageKind string

const (
	KindChat   MessageKind = "chat"
	KindNotice MessageKind = "notice"
)

type Message struct {
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Kind    MessageKind `json:"kind,omitempty"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Kind: KindChat}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Kind: KindChat}
}

func NoticeMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Kind: KindNotice}
}

func (m Message) IsNotice() bool {
	return m.Kind == KindNotice
}

// TurnState is the input and output of one router invocation.
type TurnState struct {
	Messages     []Message
	SessionID    string
	UseRAG       bool
	UseWebSearch bool
	Strategy     classifier.ProcessingStrategy
}

// LastUserQuery returns the content of the most recent user message.
func (s TurnState) LastUserQuery() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// lastConversational returns the newest message that is not a notice.
func (s TurnState) lastConversational() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if !s.Messages[i].IsNotice() {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

type CSVIntent string

const (
	CSVAnalytical CSVIntent = "analytical"
	CSVSemantic   CSVIntent = "semantic"
)

// FileInfo describes the file attached to a session.
type FileInfo struct {
	FileType string `json:"file_type"`
	FilePath string `json:"file_path"`
}

func (f *FileInfo) IsCSV() bool {
	if f == nil {
		return false
	}
	if strings.EqualFold(f.FileType, "csv") {
		return true
	}
	return strings.EqualFold(filepath.Ext(f.FilePath), ".csv")
}

// Scratch holds the intermediate results of a single turn. It is created
// empty for every turn and never persisted.
type Scratch struct {
	Context   string
	CSVIntent CSVIntent
	File      *FileInfo
}

// TurnResult is what Run hands back: the updated state, the messages this
// turn appended and the nodes visited in order.
type TurnResult struct {
	State    TurnState
	Appended []Message
	Path     []Node
}

// Visited reports whether the turn passed through node.
func (r *TurnResult) Visited(node Node) bool {
	for _, n := range r.Path {
		if n == node {
			return true
		}
	}
	return false
}

// Terminal is the last node that produced output.
func (r *TurnResult) Terminal() Node {
	if len(r.Path) == 0 {
		return ""
	}
	return r.Path[len(r.Path)-1]
}
