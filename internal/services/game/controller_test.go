package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pveiga/digitduel/internal/dependencies/mocks"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/archive"
	"github.com/pveiga/digitduel/internal/services/registry"
	"github.com/pveiga/digitduel/internal/services/scoring"
	"github.com/pveiga/digitduel/internal/storage/memory"
	"github.com/pveiga/digitduel/internal/testutil"
)

// recordingTransport captures every event sent through it
type recordingTransport struct {
	groupCast []model.Event
	unicast   []model.Event
}

func (r *recordingTransport) GroupCast(_ model.SessionID, event model.Event) {
	r.groupCast = append(r.groupCast, event)
}

func (r *recordingTransport) Unicast(_ model.TransportHandle, event model.Event) {
	r.unicast = append(r.unicast, event)
}

func (r *recordingTransport) lastEvent() model.Event {
	return r.groupCast[len(r.groupCast)-1]
}

func (r *recordingTransport) eventTypes() []model.EventType {
	types := make([]model.EventType, len(r.groupCast))
	for i, e := range r.groupCast {
		types[i] = e.Type
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	registry   *registry.Registry
	storage    *memory.Storage
	archive    *archive.Service
	transport  *recordingTransport
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.registry = registry.New()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.archive = archive.New(s.storage, s.clock, logger)
	s.transport = &recordingTransport{}
	s.controller = NewController(s.registry, scoring.New(), s.archive, s.transport, s.clock, s.random, logger)
	s.ctx = context.Background()
}

// newSession creates a session with alice as its first player
func (s *ControllerSuite) newSession() model.SessionID {
	s.random.QueueString("AAAAAA")
	snap, err := s.controller.CreateSession(s.ctx, "Alice", "alice", "h-alice")
	s.Require().NoError(err)
	return snap.ID
}

// readySession creates a full session with both secrets committed:
// alice holds 1234, bob holds 5678
func (s *ControllerSuite) readySession() model.SessionID {
	id := s.newSession()
	_, err := s.controller.JoinSession(s.ctx, id, "Bob", "bob", "h-bob")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.SubmitSecret(s.ctx, id, "alice", "1234"))
	s.Require().NoError(s.controller.SubmitSecret(s.ctx, id, "bob", "5678"))
	return id
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionSucceeds() {
	s.random.QueueString("AAAAAA")

	snap, err := s.controller.CreateSession(s.ctx, "Alice", "alice", "h-alice")
	s.Require().NoError(err)

	s.Equal(model.SessionID("1704110400-AAAAAA"), snap.ID)
	s.Equal(model.StatusWaitingForPlayers, snap.Status)
	s.Require().Len(snap.Players, 1)
	s.Equal(model.PlayerID("alice"), snap.Players[0].ID)
	s.False(snap.Players[0].SecretSet)
	s.Empty(snap.WhoseTurn)
}

func (s *ControllerSuite) TestCreateSessionAssignsPlayerID() {
	s.random.QueueString("GENPLAYER123", "AAAAAA")

	snap, err := s.controller.CreateSession(s.ctx, "Alice", "", "")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("GENPLAYER123"), snap.Players[0].ID)
}

func (s *ControllerSuite) TestCreateSessionRetriesOnIDCollision() {
	s.random.QueueString("AAAAAA", "AAAAAA", "BBBBBB")

	first, err := s.controller.CreateSession(s.ctx, "Alice", "alice", "")
	s.Require().NoError(err)
	second, err := s.controller.CreateSession(s.ctx, "Bob", "bob", "")
	s.Require().NoError(err)

	s.Equal(model.SessionID("1704110400-AAAAAA"), first.ID)
	s.Equal(model.SessionID("1704110400-BBBBBB"), second.ID)
}

func (s *ControllerSuite) TestCreateSessionEmitsEvent() {
	s.newSession()

	s.Equal([]model.EventType{model.EventSessionCreated}, s.transport.eventTypes())
	s.Equal(s.clock.Now(), s.transport.lastEvent().Timestamp)
}

// JoinSession tests

func (s *ControllerSuite) TestJoinSessionSucceeds() {
	id := s.newSession()

	snap, err := s.controller.JoinSession(s.ctx, id, "Bob", "bob", "h-bob")
	s.Require().NoError(err)

	s.Equal(model.StatusWaitingForSecrets, snap.Status)
	s.Require().Len(snap.Players, 2)
	s.Equal(model.PlayerID("bob"), snap.Players[1].ID)
}

func (s *ControllerSuite) TestJoinSessionNotFound() {
	_, err := s.controller.JoinSession(s.ctx, "missing", "Bob", "bob", "")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestJoinSessionFullRejectsThirdPlayer() {
	id := s.newSession()
	_, err := s.controller.JoinSession(s.ctx, id, "Bob", "bob", "")
	s.Require().NoError(err)

	_, err = s.controller.JoinSession(s.ctx, id, "Carol", "carol", "")
	s.ErrorIs(err, model.ErrSessionFull)
}

func (s *ControllerSuite) TestJoinSessionRejectsDuplicatePlayerID() {
	id := s.newSession()

	_, err := s.controller.JoinSession(s.ctx, id, "Alice", "alice", "h-alice-2")
	s.ErrorIs(err, model.ErrPlayerExists)

	// The rejected join leaves the session intact and still joinable
	snap, err := s.controller.Status(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(snap.Players, 1)
	s.Equal(model.StatusWaitingForPlayers, snap.Status)

	_, err = s.controller.JoinSession(s.ctx, id, "Bob", "bob", "h-bob")
	s.NoError(err)
}

// SubmitSecret tests

func (s *ControllerSuite) TestSubmitSecretSucceeds() {
	id := s.newSession()

	err := s.controller.SubmitSecret(s.ctx, id, "alice", "1234")
	s.Require().NoError(err)

	snap, _ := s.controller.Status(s.ctx, id)
	s.True(snap.Players[0].SecretSet)
}

func (s *ControllerSuite) TestSubmitSecretRejectsInvalid() {
	id := s.newSession()

	s.ErrorIs(s.controller.SubmitSecret(s.ctx, id, "alice", "1123"), model.ErrInvalidSecret)
	s.ErrorIs(s.controller.SubmitSecret(s.ctx, id, "alice", "0123"), model.ErrInvalidSecret)
	s.ErrorIs(s.controller.SubmitSecret(s.ctx, id, "alice", "12345"), model.ErrInvalidSecret)
}

func (s *ControllerSuite) TestSubmitSecretOnlyOnce() {
	id := s.newSession()
	s.Require().NoError(s.controller.SubmitSecret(s.ctx, id, "alice", "1234"))

	err := s.controller.SubmitSecret(s.ctx, id, "alice", "5678")
	s.ErrorIs(err, model.ErrSecretAlreadySet)
}

func (s *ControllerSuite) TestSubmitSecretUnknownPlayer() {
	id := s.newSession()

	err := s.controller.SubmitSecret(s.ctx, id, "carol", "1234")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestSecretCommittedEventOmitsValue() {
	id := s.newSession()
	s.Require().NoError(s.controller.SubmitSecret(s.ctx, id, "alice", "1234"))

	event := s.transport.lastEvent()
	s.Equal(model.EventSecretCommitted, event.Type)
	payload, ok := event.Payload.(model.SecretCommittedPayload)
	s.Require().True(ok)
	s.Equal(model.PlayerID("alice"), payload.PlayerID)
}

// SubmitGuess tests

func (s *ControllerSuite) TestSubmitGuessBeforeReady() {
	id := s.newSession()
	_, err := s.controller.JoinSession(s.ctx, id, "Bob", "bob", "")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.SubmitSecret(s.ctx, id, "alice", "1234"))

	// Bob's secret is still pending
	_, err = s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.ErrorIs(err, model.ErrSessionNotReady)
}

func (s *ControllerSuite) TestSubmitGuessScoresAgainstOpponent() {
	id := s.readySession()

	res, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5687")
	s.Require().NoError(err)

	s.Equal(2, res.CorrectPositions)
	s.Equal(2, res.CorrectDigits)
	s.Equal("+2, -2", res.Result())
	s.False(res.GameOver)
	s.Equal(model.PlayerID("bob"), res.NextPlayer)
}

func (s *ControllerSuite) TestSubmitGuessRejectsInvalid() {
	id := s.readySession()

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "1123")
	s.ErrorIs(err, model.ErrInvalidGuess)
}

func (s *ControllerSuite) TestSubmitGuessEnforcesAlternation() {
	id := s.readySession()

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "9035")
	s.Require().NoError(err)

	_, err = s.controller.SubmitGuess(s.ctx, id, "alice", "9036")
	s.ErrorIs(err, model.ErrNotYourTurn)

	_, err = s.controller.SubmitGuess(s.ctx, id, "bob", "9035")
	s.Require().NoError(err)

	_, err = s.controller.SubmitGuess(s.ctx, id, "bob", "9036")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestEitherPlayerMayOpen() {
	id := s.readySession()

	_, err := s.controller.SubmitGuess(s.ctx, id, "bob", "9035")
	s.Require().NoError(err)

	snap, _ := s.controller.Status(s.ctx, id)
	s.Equal(model.PlayerID("alice"), snap.WhoseTurn)
}

func (s *ControllerSuite) TestFirstGuessStartsSession() {
	id := s.readySession()

	snap, _ := s.controller.Status(s.ctx, id)
	s.False(snap.IsStarted)
	s.Equal(model.StatusWaitingForSecrets, snap.Status)

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "9035")
	s.Require().NoError(err)

	snap, _ = s.controller.Status(s.ctx, id)
	s.True(snap.IsStarted)
	s.Equal(model.StatusInProgress, snap.Status)
}

func (s *ControllerSuite) TestSubmitGuessAppendsHistory() {
	id := s.readySession()

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5687")
	s.Require().NoError(err)
	_, err = s.controller.SubmitGuess(s.ctx, id, "bob", "1243")
	s.Require().NoError(err)

	snap, _ := s.controller.Status(s.ctx, id)
	s.Require().Len(snap.History, 2)
	s.Equal(model.PlayerID("alice"), snap.History[0].PlayerID)
	s.Equal("5687", snap.History[0].Guess)
	s.Equal(model.PlayerID("bob"), snap.History[1].PlayerID)
}

func (s *ControllerSuite) TestWinningGuessEndsGame() {
	id := s.readySession()

	res, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.Require().NoError(err)

	s.True(res.GameOver)
	s.Equal(model.PlayerID("alice"), res.Winner)
	s.Equal(4, res.CorrectPositions)
	s.Empty(res.NextPlayer)

	snap, _ := s.controller.Status(s.ctx, id)
	s.Equal(model.StatusOver, snap.Status)
	s.Equal(1, snap.Players[0].Score)
	s.Equal(0, snap.Players[1].Score)
	s.True(snap.History[0].Winning)
}

func (s *ControllerSuite) TestNoGuessesAfterGameOver() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.Require().NoError(err)

	_, err = s.controller.SubmitGuess(s.ctx, id, "bob", "1234")
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestWinningGuessArchivesMatch() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.Require().NoError(err)

	match, err := s.archive.GetMatch(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.OutcomeWon, match.Outcome)
	s.Equal(model.PlayerID("alice"), match.Winner)
	s.Require().Len(match.Turns, 1)
	s.True(match.Turns[0].Winning)
	s.Equal("+4, -0", match.Turns[0].Result)
}

func (s *ControllerSuite) TestGuessEventsOnOrdinaryTurn() {
	id := s.readySession()
	s.transport.groupCast = nil

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "9035")
	s.Require().NoError(err)

	s.Equal([]model.EventType{model.EventGuessResult, model.EventTurnAdvanced}, s.transport.eventTypes())
}

func (s *ControllerSuite) TestGuessEventsOnWinningTurn() {
	id := s.readySession()
	s.transport.groupCast = nil

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.Require().NoError(err)

	s.Equal([]model.EventType{model.EventGuessResult, model.EventGameOver}, s.transport.eventTypes())
}

func (s *ControllerSuite) TestRejectedGuessSendsErrorToPlayer() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5687")
	s.Require().NoError(err)
	s.Empty(s.transport.unicast)

	_, err = s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.ErrorIs(err, model.ErrNotYourTurn)

	s.Require().Len(s.transport.unicast, 1)
	evt := s.transport.unicast[0]
	s.Equal(model.EventError, evt.Type)
	s.Equal(model.PlayerID("alice"), evt.PlayerID)
	payload, ok := evt.Payload.(model.ErrorPayload)
	s.Require().True(ok)
	s.Equal(model.ErrNotYourTurn.Error(), payload.Reason)
}

func (s *ControllerSuite) TestRejectedSecretSendsErrorToPlayer() {
	id := s.newSession()

	err := s.controller.SubmitSecret(s.ctx, id, "alice", "1123")
	s.ErrorIs(err, model.ErrInvalidSecret)

	s.Require().Len(s.transport.unicast, 1)
	s.Equal(model.EventError, s.transport.unicast[0].Type)
	s.Equal(model.PlayerID("alice"), s.transport.unicast[0].PlayerID)
}

// QuitSession tests

func (s *ControllerSuite) TestQuitMidMatchAbandons() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "9035")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.QuitSession(s.ctx, id, "bob"))

	snap, err := s.controller.Status(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.StatusAbandoned, snap.Status)
	s.Require().Len(snap.Players, 1)
	s.Equal(model.PlayerID("alice"), snap.Players[0].ID)

	match, err := s.archive.GetMatch(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.OutcomeAbandoned, match.Outcome)
	s.Empty(match.Winner)
}

func (s *ControllerSuite) TestQuitEmptiedSessionIsDiscarded() {
	id := s.newSession()

	s.Require().NoError(s.controller.QuitSession(s.ctx, id, "alice"))

	_, err := s.controller.Status(s.ctx, id)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestQuitAfterGameOverKeepsResult() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5678")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.QuitSession(s.ctx, id, "bob"))

	snap, err := s.controller.Status(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.StatusOver, snap.Status)

	// The archived outcome is still the win, not an abandonment
	match, err := s.archive.GetMatch(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.OutcomeWon, match.Outcome)
}

func (s *ControllerSuite) TestNoGuessesAfterAbandonment() {
	id := s.readySession()
	s.Require().NoError(s.controller.QuitSession(s.ctx, id, "bob"))

	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "9035")
	s.ErrorIs(err, model.ErrSessionAbandoned)
}

func (s *ControllerSuite) TestNoSecretsAfterAbandonment() {
	id := s.newSession()
	_, err := s.controller.JoinSession(s.ctx, id, "Bob", "bob", "h-bob")
	s.Require().NoError(err)
	s.Require().NoError(s.controller.QuitSession(s.ctx, id, "bob"))

	err = s.controller.SubmitSecret(s.ctx, id, "alice", "1234")
	s.ErrorIs(err, model.ErrSessionAbandoned)
}

// Reconnect tests

func (s *ControllerSuite) TestReconnectReplacesHandle() {
	id := s.readySession()

	snap, err := s.controller.Reconnect(s.ctx, id, "alice", "h-alice-2")
	s.Require().NoError(err)
	s.Equal(id, snap.ID)

	sess, err := s.registry.Get(id)
	s.Require().NoError(err)
	sess.Lock()
	handle := sess.PlayerByID("alice").Handle
	sess.Unlock()
	s.Equal(model.TransportHandle("h-alice-2"), handle)
}

func (s *ControllerSuite) TestReconnectIsIdempotent() {
	id := s.readySession()

	first, err := s.controller.Reconnect(s.ctx, id, "alice", "h-alice-2")
	s.Require().NoError(err)
	second, err := s.controller.Reconnect(s.ctx, id, "alice", "h-alice-2")
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *ControllerSuite) TestReconnectPreservesState() {
	id := s.readySession()
	_, err := s.controller.SubmitGuess(s.ctx, id, "alice", "5687")
	s.Require().NoError(err)

	snap, err := s.controller.Reconnect(s.ctx, id, "bob", "h-bob-2")
	s.Require().NoError(err)

	s.Require().Len(snap.History, 1)
	s.Equal(model.PlayerID("bob"), snap.WhoseTurn)
	s.Equal(model.StatusInProgress, snap.Status)
}

func (s *ControllerSuite) TestReconnectDoesNotTouchActivity() {
	id := s.readySession()
	before, _ := s.controller.Status(s.ctx, id)

	s.clock.Advance(5 * time.Minute)
	_, err := s.controller.Reconnect(s.ctx, id, "alice", "h-alice-2")
	s.Require().NoError(err)

	after, _ := s.controller.Status(s.ctx, id)
	s.Equal(before.LastActivityAt, after.LastActivityAt)
}

func (s *ControllerSuite) TestReconnectUnknownPlayer() {
	id := s.readySession()

	_, err := s.controller.Reconnect(s.ctx, id, "carol", "h-carol")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestReconnectUnknownSession() {
	_, err := s.controller.Reconnect(s.ctx, "missing", "alice", "h")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Status tests

func (s *ControllerSuite) TestStatusNotFound() {
	_, err := s.controller.Status(s.ctx, "missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func TestControllerNilTransport(t *testing.T) {
	reg := registry.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	arch := archive.New(memory.New(), clk, testutil.NopLogger())
	c := NewController(reg, scoring.New(), arch, nil, clk, rnd, testutil.NopLogger())

	rnd.QueueString("AAAAAA")
	snap, err := c.CreateSession(context.Background(), "Alice", "alice", "h-alice")
	require.NoError(t, err)
	require.Equal(t, model.SessionID("1704110400-AAAAAA"), snap.ID)
}
