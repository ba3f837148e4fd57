package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/testutil"
)

func awaitClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients (have %d)", want, hub.ClientCount())
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub("s1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := NewClient(hub, "alice", "h-alice")
	bob := NewClient(hub, "bob", "h-bob")
	hub.Register(alice)
	hub.Register(bob)
	awaitClientCount(t, hub, 2)

	hub.Broadcast([]byte("event: ping\ndata: {}\n\n"))

	assert.Equal(t, "event: ping\ndata: {}\n\n", string(receive(t, alice)))
	assert.Equal(t, "event: ping\ndata: {}\n\n", string(receive(t, bob)))
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub("s1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := NewClient(hub, "alice", "h-alice")
	hub.Register(alice)
	awaitClientCount(t, hub, 1)

	hub.Unregister(alice)
	awaitClientCount(t, hub, 0)

	// The client's channel is closed on unregister
	_, open := <-alice.send
	assert.False(t, open)
}

func TestHubSendToHandle(t *testing.T) {
	hub := NewHub("s1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	alice := NewClient(hub, "alice", "h-alice")
	bob := NewClient(hub, "bob", "h-bob")
	hub.Register(alice)
	hub.Register(bob)
	awaitClientCount(t, hub, 2)

	hub.SendToHandle("h-bob", []byte("private"))

	assert.Equal(t, "private", string(receive(t, bob)))
	select {
	case msg := <-alice.send:
		t.Fatalf("alice should not have received %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubSendToUnknownHandleIsNoop(t *testing.T) {
	hub := NewHub("s1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	hub.SendToHandle("missing", []byte("dropped"))
}

func TestHubManagerGetOrCreate(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub := manager.GetOrCreateHub("s1")
	require.NotNil(t, hub)
	assert.Same(t, hub, manager.GetOrCreateHub("s1"))
	assert.Same(t, hub, manager.GetHub("s1"))

	assert.Nil(t, manager.GetHub("s2"))
}

func TestHubManagerRemoveHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	manager.GetOrCreateHub("s1")

	manager.RemoveHub("s1")
	assert.Nil(t, manager.GetHub("s1"))

	// Removing a missing hub is a no-op
	manager.RemoveHub("s1")
}

func TestHubManagerCleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	empty := manager.GetOrCreateHub("empty")
	_ = empty

	busy := manager.GetOrCreateHub("busy")
	client := NewClient(busy, "alice", "h-alice")
	busy.Register(client)
	awaitClientCount(t, busy, 1)

	manager.CleanupEmptyHubs()

	assert.Nil(t, manager.GetHub("empty"))
	assert.NotNil(t, manager.GetHub("busy"))
}

func TestNotifierGroupCast(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	notifier := NewNotifier(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("s1")
	alice := NewClient(hub, "alice", "h-alice")
	hub.Register(alice)
	awaitClientCount(t, hub, 1)

	notifier.GroupCast("s1", model.Event{
		Type:      model.EventTurnAdvanced,
		SessionID: "s1",
		PlayerID:  "bob",
		Payload:   model.TurnAdvancedPayload{NextPlayerID: "bob"},
	})

	msg := string(receive(t, alice))
	assert.Contains(t, msg, "event: turn_advanced\n")
	assert.Contains(t, msg, `"type":"turn_advanced"`)
	assert.Contains(t, msg, `"next_player_id":"bob"`)

	// The data line carries a well-formed JSON envelope
	var payload struct {
		Type      string `json:"type"`
		SessionID string `json:"session_id"`
	}
	dataLine := msg[len("event: turn_advanced\ndata: ") : len(msg)-2]
	require.NoError(t, json.Unmarshal([]byte(dataLine), &payload))
	assert.Equal(t, "s1", payload.SessionID)
}

func TestNotifierNoHubIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	notifier := NewNotifier(manager, testutil.NopLogger())

	// No hub exists for the session; both casts are silently dropped
	notifier.GroupCast("missing", model.Event{Type: model.EventGameOver, SessionID: "missing"})
	notifier.Unicast("h-ghost", model.Event{Type: model.EventGameOver, SessionID: "missing"})
}

func TestNotifierUnicast(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	notifier := NewNotifier(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("s1")
	alice := NewClient(hub, "alice", "h-alice")
	bob := NewClient(hub, "bob", "h-bob")
	hub.Register(alice)
	hub.Register(bob)
	awaitClientCount(t, hub, 2)

	notifier.Unicast("h-alice", model.Event{
		Type:      model.EventError,
		SessionID: "s1",
		PlayerID:  "alice",
		Payload:   model.ErrorPayload{Reason: "invalid guess"},
	})

	msg := string(receive(t, alice))
	assert.Contains(t, msg, "event: error\n")
	assert.Contains(t, msg, `"reason":"invalid guess"`)
}
