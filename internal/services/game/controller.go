package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pveiga/digitduel/internal/dependencies/clock"
	"github.com/pveiga/digitduel/internal/dependencies/random"
	"github.com/pveiga/digitduel/internal/model"
	"github.com/pveiga/digitduel/internal/services/archive"
	"github.com/pveiga/digitduel/internal/services/registry"
	"github.com/pveiga/digitduel/internal/services/scoring"
	"github.com/pveiga/digitduel/internal/transport"
)

const (
	// SessionIDSuffixLength is the length of the random session id suffix
	SessionIDSuffixLength = 6
	// PlayerIDLength is the length of generated player ids
	PlayerIDLength = 12
	// IDAlphabet is the character set used for generated ids
	IDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller drives the session state machine. Each session serializes its
// mutating operations under the session's own lock; the registry lock is
// taken only for the id lookup, so distinct sessions never contend.
type Controller struct {
	registry  *registry.Registry
	scoring   *scoring.Service
	archive   *archive.Service
	transport transport.Transport
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	reg *registry.Registry,
	scoringService *scoring.Service,
	archiveService *archive.Service,
	tp transport.Transport,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	if tp == nil {
		tp = transport.NewNop()
	}
	return &Controller{
		registry:  reg,
		scoring:   scoringService,
		archive:   archiveService,
		transport: tp,
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "game")),
	}
}

// GuessResult is the outcome of an accepted guess
type GuessResult struct {
	Guess            string
	CorrectDigits    int
	CorrectPositions int
	GameOver         bool
	Winner           model.PlayerID // set only when GameOver
	NextPlayer       model.PlayerID // set only when the game continues
}

// Result renders the guess outcome in the wire format shared with
// model.TurnRecord.
func (r GuessResult) Result() string {
	return fmt.Sprintf("+%d, -%d", r.CorrectPositions, r.CorrectDigits)
}

// CreateSession creates a session holding its first player. The player id
// may be supplied by the client (to allow controlled reconnection later) or
// left empty to have one assigned.
func (c *Controller) CreateSession(ctx context.Context, displayName string, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error) {
	now := c.clock.Now()
	if playerID == "" {
		playerID = model.PlayerID(c.random.String(PlayerIDLength, IDAlphabet))
	}

	// Timestamp plus random suffix keeps ids practically collision-free;
	// the registry still rejects the pathological duplicate.
	var sess *model.Session
	for {
		id := model.SessionID(fmt.Sprintf("%d-%s", now.Unix(), c.random.String(SessionIDSuffixLength, IDAlphabet)))
		sess = model.NewSession(id, now)
		if err := c.registry.Put(sess); err == nil {
			break
		}
	}

	sess.Lock()
	player := model.NewPlayer(playerID, displayName, handle, now)
	sess.Players = append(sess.Players, player)
	sess.Status = model.StatusWaitingForPlayers
	sess.Touch(now)
	snap := sess.Snapshot()
	sess.Unlock()

	c.logger.Info("session created",
		slog.String("session_id", string(snap.ID)),
		slog.String("player_id", string(playerID)),
	)

	c.emit(snap.ID, model.Event{
		Type:      model.EventSessionCreated,
		SessionID: snap.ID,
		PlayerID:  playerID,
		Payload:   model.SessionCreatedPayload{SessionID: snap.ID, PlayerID: playerID},
	})

	return snap, nil
}

// JoinSession adds a second player to an existing session
func (c *Controller) JoinSession(ctx context.Context, id model.SessionID, displayName string, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error) {
	sess, err := c.registry.Get(id)
	if err != nil {
		return model.Snapshot{}, err
	}

	now := c.clock.Now()
	if playerID == "" {
		playerID = model.PlayerID(c.random.String(PlayerIDLength, IDAlphabet))
	}

	sess.Lock()
	if sess.IsFull() {
		sess.Unlock()
		return model.Snapshot{}, model.ErrSessionFull
	}
	// A supplied id colliding with the existing player would create two
	// entries resolving to the same player; reconnection goes through
	// Reconnect, never through a second join.
	if sess.PlayerByID(playerID) != nil {
		sess.Unlock()
		return model.Snapshot{}, model.ErrPlayerExists
	}

	player := model.NewPlayer(playerID, displayName, handle, now)
	sess.Players = append(sess.Players, player)
	if sess.IsFull() {
		sess.Status = model.StatusWaitingForSecrets
	} else {
		sess.Status = model.StatusWaitingForPlayers
	}
	sess.Touch(now)
	snap := sess.Snapshot()
	sess.Unlock()

	c.logger.Info("player joined",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)

	c.emit(id, model.Event{
		Type:      model.EventPlayerJoined,
		SessionID: id,
		PlayerID:  playerID,
		Payload:   model.PlayerJoinedPayload{PlayerID: playerID, DisplayName: displayName},
	})

	return snap, nil
}

// SubmitSecret commits a player's secret. A secret can be committed exactly
// once; readiness for guessing is implicit once both are set.
func (c *Controller) SubmitSecret(ctx context.Context, id model.SessionID, playerID model.PlayerID, value string) error {
	sess, err := c.registry.Get(id)
	if err != nil {
		return err
	}

	sess.Lock()
	player := sess.PlayerByID(playerID)
	if player == nil {
		sess.Unlock()
		return model.ErrPlayerNotFound
	}
	if sess.Status == model.StatusAbandoned {
		handle := player.Handle
		sess.Unlock()
		c.emitError(id, playerID, handle, model.ErrSessionAbandoned)
		return model.ErrSessionAbandoned
	}

	if err := player.Secret.Commit(value); err != nil {
		handle := player.Handle
		sess.Unlock()
		c.emitError(id, playerID, handle, err)
		return err
	}

	sess.Touch(c.clock.Now())
	sess.Unlock()

	c.logger.Info("secret committed",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)

	c.emit(id, model.Event{
		Type:      model.EventSecretCommitted,
		SessionID: id,
		PlayerID:  playerID,
		Payload:   model.SecretCommittedPayload{PlayerID: playerID},
	})

	return nil
}

// SubmitGuess scores a guess against the opponent's secret, appends the
// turn record, and advances or ends the game.
func (c *Controller) SubmitGuess(ctx context.Context, id model.SessionID, playerID model.PlayerID, guess string) (GuessResult, error) {
	sess, err := c.registry.Get(id)
	if err != nil {
		return GuessResult{}, err
	}

	sess.Lock()

	if sess.Status == model.StatusAbandoned {
		sess.Unlock()
		return GuessResult{}, model.ErrSessionAbandoned
	}
	if !sess.IsReady() {
		sess.Unlock()
		return GuessResult{}, model.ErrSessionNotReady
	}
	player := sess.PlayerByID(playerID)
	if player == nil {
		sess.Unlock()
		return GuessResult{}, model.ErrPlayerNotFound
	}
	var rejected error
	switch {
	case !model.IsValidCode(guess):
		rejected = model.ErrInvalidGuess
	case sess.Status == model.StatusOver:
		rejected = model.ErrGameOver
	case sess.WhoseTurn != "" && sess.WhoseTurn != playerID:
		rejected = model.ErrNotYourTurn
	}
	if rejected != nil {
		handle := player.Handle
		sess.Unlock()
		c.emitError(id, playerID, handle, rejected)
		return GuessResult{}, rejected
	}

	opponent := sess.Opponent(playerID)
	correctDigits, correctPositions := c.scoring.Score(guess, opponent.Secret.Value())
	winning := c.scoring.IsWinning(correctPositions)

	now := c.clock.Now()
	if !sess.IsStarted() {
		started := now
		sess.StartedAt = &started
		sess.Status = model.StatusInProgress
	}

	sess.History = append(sess.History, model.TurnRecord{
		PlayerID:         playerID,
		Guess:            guess,
		CorrectPositions: correctPositions,
		CorrectDigits:    correctDigits,
		Winning:          winning,
	})
	// Alternation: the opponent owns the next turn, winning guess or not
	sess.WhoseTurn = opponent.ID
	sess.Touch(now)

	result := GuessResult{
		Guess:            guess,
		CorrectDigits:    correctDigits,
		CorrectPositions: correctPositions,
	}

	var snap model.Snapshot
	if winning {
		sess.Status = model.StatusOver
		player.Score++
		result.GameOver = true
		result.Winner = playerID
		snap = sess.Snapshot()
	} else {
		result.NextPlayer = opponent.ID
	}
	sess.Unlock()

	c.logger.Info("guess scored",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.Int("correct_positions", correctPositions),
		slog.Int("correct_digits", correctDigits),
		slog.Bool("winning", winning),
	)

	c.emit(id, model.Event{
		Type:      model.EventGuessResult,
		SessionID: id,
		PlayerID:  playerID,
		Payload: model.GuessResultPayload{
			PlayerID:         playerID,
			Guess:            guess,
			CorrectDigits:    correctDigits,
			CorrectPositions: correctPositions,
		},
	})

	if winning {
		c.emit(id, model.Event{
			Type:      model.EventGameOver,
			SessionID: id,
			PlayerID:  playerID,
			Payload:   model.GameOverPayload{WinnerID: playerID},
		})
		c.archive.Record(ctx, snap, model.OutcomeWon, playerID)
	} else {
		c.emit(id, model.Event{
			Type:      model.EventTurnAdvanced,
			SessionID: id,
			PlayerID:  opponent.ID,
			Payload:   model.TurnAdvancedPayload{NextPlayerID: opponent.ID},
		})
	}

	return result, nil
}

// QuitSession removes a player. An emptied session is discarded outright;
// a session abandoned mid-match moves to the abandoned terminal state and
// the remaining player is notified.
func (c *Controller) QuitSession(ctx context.Context, id model.SessionID, playerID model.PlayerID) error {
	sess, err := c.registry.Get(id)
	if err != nil {
		return err
	}

	sess.Lock()
	player := sess.PlayerByID(playerID)
	if player == nil {
		sess.Unlock()
		return model.ErrPlayerNotFound
	}

	displayName := player.DisplayName
	for i, p := range sess.Players {
		if p.ID == playerID {
			sess.Players = append(sess.Players[:i], sess.Players[i+1:]...)
			break
		}
	}

	wasLive := sess.Status != model.StatusOver && sess.Status != model.StatusAbandoned
	empty := len(sess.Players) == 0
	if wasLive {
		sess.Status = model.StatusAbandoned
	}
	sess.Touch(c.clock.Now())
	snap := sess.Snapshot()
	sess.Unlock()

	if empty {
		c.registry.Delete(id)
	}

	c.logger.Info("player left",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.Bool("session_discarded", empty),
	)

	c.emit(id, model.Event{
		Type:      model.EventPlayerLeft,
		SessionID: id,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, DisplayName: displayName},
	})

	// Archive the abandonment once, on the transition out of a live state
	if wasLive {
		c.archive.Record(ctx, snap, model.OutcomeAbandoned, "")
	}

	return nil
}

// Reconnect replaces a player's transport handle. It is idempotent and
// non-mutating with respect to game state: history, turn order, and the
// activity timestamp are untouched.
func (c *Controller) Reconnect(ctx context.Context, id model.SessionID, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error) {
	sess, err := c.registry.Get(id)
	if err != nil {
		return model.Snapshot{}, err
	}

	sess.Lock()
	player := sess.PlayerByID(playerID)
	if player == nil {
		sess.Unlock()
		return model.Snapshot{}, model.ErrPlayerNotFound
	}
	player.Handle = handle
	snap := sess.Snapshot()
	sess.Unlock()

	c.logger.Info("player reconnected",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)

	return snap, nil
}

// Status returns a read-only snapshot of a session
func (c *Controller) Status(ctx context.Context, id model.SessionID) (model.Snapshot, error) {
	sess, err := c.registry.Get(id)
	if err != nil {
		return model.Snapshot{}, err
	}

	sess.Lock()
	snap := sess.Snapshot()
	sess.Unlock()
	return snap, nil
}

// emit sends an event to every connection in the session, fire-and-forget
func (c *Controller) emit(id model.SessionID, event model.Event) {
	event.Timestamp = c.clock.Now()
	c.transport.GroupCast(id, event)
}

// emitError reports a rejected operation back to the offending player's
// own connection, so stream-only observers see the rejection too
func (c *Controller) emitError(id model.SessionID, playerID model.PlayerID, handle model.TransportHandle, reason error) {
	c.transport.Unicast(handle, model.Event{
		Type:      model.EventError,
		Timestamp: c.clock.Now(),
		SessionID: id,
		PlayerID:  playerID,
		Payload:   model.ErrorPayload{Reason: reason.Error()},
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, displayName string, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error)
	JoinSession(ctx context.Context, id model.SessionID, displayName string, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error)
	SubmitSecret(ctx context.Context, id model.SessionID, playerID model.PlayerID, value string) error
	SubmitGuess(ctx context.Context, id model.SessionID, playerID model.PlayerID, guess string) (GuessResult, error)
	QuitSession(ctx context.Context, id model.SessionID, playerID model.PlayerID) error
	Reconnect(ctx context.Context, id model.SessionID, playerID model.PlayerID, handle model.TransportHandle) (model.Snapshot, error)
	Status(ctx context.Context, id model.SessionID) (model.Snapshot, error)
}

var _ ControllerInterface = (*Controller)(nil)
