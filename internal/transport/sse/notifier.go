package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/transport"
)

// Notifier implements the transport interface over SSE hubs. Events for
// sessions with no connected clients are silently discarded, matching the
// fire-and-forget contract.
type Notifier struct {
	hubManager *HubManager
	logger     *slog.Logger
}

var _ transport.Transport = (*Notifier)(nil)

// NewNotifier creates a new Notifier
func NewNotifier(hubManager *HubManager, logger *slog.Logger) *Notifier {
	return &Notifier{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-notifier")),
	}
}

// envelope is the wire form of an event
type envelope struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// GroupCast delivers an event to every client connected to the session
func (n *Notifier) GroupCast(sessionID model.SessionID, event model.Event) {
	hub := n.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}

	msg, err := n.format(event)
	if err != nil {
		return
	}
	hub.Broadcast(msg)
}

// Unicast delivers an event to the single connection behind a handle.
// The event's session id locates the hub.
func (n *Notifier) Unicast(handle model.TransportHandle, event model.Event) {
	hub := n.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	msg, err := n.format(event)
	if err != nil {
		return
	}
	hub.SendToHandle(handle, msg)
}

// format renders an event as an SSE message named after the event type
func (n *Notifier) format(event model.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Type:      string(event.Type),
		SessionID: string(event.SessionID),
		PlayerID:  string(event.PlayerID),
		Timestamp: event.Timestamp,
		Payload:   event.Payload,
	})
	if err != nil {
		n.logger.Error("failed to encode event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
		return nil, err
	}

	msg := make([]byte, 0, len(data)+len(event.Type)+16)
	msg = append(msg, "event: "...)
	msg = append(msg, event.Type...)
	msg = append(msg, "\ndata: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg, nil
}
