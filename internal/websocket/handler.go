package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to a chat session and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, onFrame FrameHandler) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256), onFrame: onFrame}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
