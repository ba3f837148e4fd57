package sse

import (
	"net/http"
	"time"

	"github.com/pveiga/digitduel/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	playerID    model.PlayerID
	handle      model.TransportHandle
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client bound to a transport handle
func NewClient(hub *Hub, playerID model.PlayerID, handle model.TransportHandle) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		handle:      handle,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Handle returns the client's transport handle
func (c *Client) Handle() model.TransportHandle {
	return c.handle
}

// ServeSSE handles the SSE connection for a client, blocking until the
// client disconnects or the hub shuts down
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, handle model.TransportHandle) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, playerID, handle)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
