package handler

import (
	"context"
	"encoding/json"
	"strings"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/service"
	internalWS "okada-agent-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Frame types of the live chat socket.
const (
	FrameMessage = "message"
	FrameReply   = "reply"
	FrameError   = "error"
	FramePing    = "ping"
	FramePong    = "pong"
)

type LiveChatHandler struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	logger      logger.ILogger
}

func NewLiveChatHandler(chatService service.IChatService, hub *internalWS.Hub, log logger.ILogger) *LiveChatHandler {
	return &LiveChatHandler{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (h *LiveChatHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/session/v1/:id/live", auth, h.ServeWs)
}

// ServeWs upgrades the request and attaches the socket to the chat session
// in the path. Notifications for that session arrive on the same socket.
func (h *LiveChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := c.Params("id")
	if strings.TrimSpace(sessionID) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session id is required")
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("LiveChatHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, h.onFrame)
		h.logger.Info("LiveChatHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *LiveChatHandler) onFrame(client *internalWS.Client, data []byte) {
	client.Reply(h.HandleFrame(context.Background(), client.SessionID, data))
}

// HandleFrame answers one inbound frame with one outbound frame.
func (h *LiveChatHandler) HandleFrame(ctx context.Context, sessionID string, data []byte) []byte {
	var in dto.LiveChatFrame
	if err := json.Unmarshal(data, &in); err != nil {
		return encodeFrame(dto.LiveChatFrame{Type: FrameError, Error: "invalid frame"})
	}

	switch in.Type {
	case FramePing:
		return encodeFrame(dto.LiveChatFrame{Type: FramePong})
	case FrameMessage:
	default:
		return encodeFrame(dto.LiveChatFrame{Type: FrameError, Error: "unknown frame type"})
	}

	if strings.TrimSpace(in.Message) == "" {
		return encodeFrame(dto.LiveChatFrame{Type: FrameError, Error: "message is required"})
	}

	res, err := h.chatService.SendMessage(ctx, &dto.SendChatRequest{
		SessionId:    sessionID,
		Message:      in.Message,
		UseRAG:       in.UseRAG,
		UseWebSearch: in.UseWebSearch,
	})
	if err != nil {
		h.logger.Error("LiveChatHandler", "Turn failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		return encodeFrame(dto.LiveChatFrame{Type: FrameError, Error: "Internal server error"})
	}
	return encodeFrame(dto.LiveChatFrame{Type: FrameReply, Data: res})
}

func encodeFrame(f dto.LiveChatFrame) []byte {
	data, _ := json.Marshal(f)
	return data
}
