package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okada-agent-be/internal/pkg/logger"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func TestHub_SendReachesOnlyTheSession(t *testing.T) {
	hub := startHub(t)

	a1 := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 4)}
	a2 := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, SessionID: "b", Send: make(chan []byte, 4)}
	hub.register <- a1
	hub.register <- a2
	hub.register <- b
	require.Eventually(t, func() bool { return hub.Connected("a") == 2 }, time.Second, 10*time.Millisecond)

	hub.Send("a", map[string]string{"type": "ping"})

	for _, c := range []*Client{a1, a2} {
		select {
		case data := <-c.Send:
			var frame map[string]string
			require.NoError(t, json.Unmarshal(data, &frame))
			assert.Equal(t, "ping", frame["type"])
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
	assert.Empty(t, b.Send)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := startHub(t)

	c := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connected("a") == 1 }, time.Second, 10*time.Millisecond)

	hub.Send("a", "first")
	hub.Send("a", "second")

	assert.Equal(t, `"first"`, string(<-c.Send))
	assert.Equal(t, 1, hub.Connected("a"))
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	c := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	require.Eventually(t, func() bool { return hub.Connected("a") == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}
