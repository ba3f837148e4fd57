package transport

import "github.com/pveiga/digitduel/internal/model"

// Transport delivers events to connected clients. Both primitives are
// fire-and-forget with no delivery guarantee; the game state machine never
// waits on them and never observes their outcome.
type Transport interface {
	// Unicast delivers an event to the single connection behind a handle
	Unicast(handle model.TransportHandle, event model.Event)

	// GroupCast delivers an event to every connection in a session
	GroupCast(sessionID model.SessionID, event model.Event)
}

// Nop is a Transport that discards every event. Useful for tests and for
// running the core without a delivery substrate.
type Nop struct{}

var _ Transport = (*Nop)(nil)

// NewNop creates a new Nop transport
func NewNop() *Nop {
	return &Nop{}
}

// Unicast discards the event
func (n *Nop) Unicast(model.TransportHandle, model.Event) {}

// GroupCast discards the event
func (n *Nop) GroupCast(model.SessionID, model.Event) {}
