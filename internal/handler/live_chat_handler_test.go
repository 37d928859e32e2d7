package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	err  error
	last *dto.SendChatRequest
}

func (s *stubChat) SendMessage(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SendChatResponse{
		SessionId: req.SessionId,
		Replies:   []dto.ChatMessageDTO{{Role: "assistant", Content: "hi there", Kind: "chat"}},
	}, nil
}

func (s *stubChat) GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryResponse, error) {
	return nil, nil
}

func (s *stubChat) ClearSession(ctx context.Context, sessionId string) error { return nil }

func TestLiveChatHandler_HandleFrame(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		chatErr   error
		wantType  string
		wantError string
	}{
		{name: "message", in: `{"type":"message","message":"hello","use_rag":true}`, wantType: FrameReply},
		{name: "ping", in: `{"type":"ping"}`, wantType: FramePong},
		{name: "garbage", in: `not json`, wantType: FrameError, wantError: "invalid frame"},
		{name: "unknown type", in: `{"type":"subscribe"}`, wantType: FrameError, wantError: "unknown frame type"},
		{name: "empty message", in: `{"type":"message","message":"  "}`, wantType: FrameError, wantError: "message is required"},
		{name: "turn failure", in: `{"type":"message","message":"hello"}`, chatErr: errors.New("redis down"), wantType: FrameError, wantError: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChat{err: tt.chatErr}
			h := NewLiveChatHandler(chat, nil, logger.NewNopLogger())

			var out dto.LiveChatFrame
			require.NoError(t, json.Unmarshal(h.HandleFrame(context.Background(), "s1", []byte(tt.in)), &out))

			assert.Equal(t, tt.wantType, out.Type)
			assert.Equal(t, tt.wantError, out.Error)
			if tt.wantType == FrameReply {
				require.NotNil(t, out.Data)
				assert.Equal(t, "hi there", out.Data.Replies[0].Content)
				assert.Equal(t, "s1", chat.last.SessionId)
				assert.True(t, chat.last.UseRAG)
			}
		})
	}
}
