package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pveiga/digitduel/internal/api"
	"github.com/pveiga/digitduel/internal/api/response"
	"github.com/pveiga/digitduel/internal/factory"
	"github.com/pveiga/digitduel/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		ArchiveService: app.ArchiveService,
		HubManager:     app.HubManager,
		Random:         app.Random,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// newMatch drives a session through create and join, returning its id and
// both player ids
func (ts *testServer) newMatch(t *testing.T) (sessionID, alice, bob string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"display_name": "Alice"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created response.CreateSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/join", map[string]string{"display_name": "Bob"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var joined response.JoinSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))

	return created.SessionID, created.PlayerID, joined.PlayerID
}

func (ts *testServer) submitSecret(t *testing.T, sessionID, playerID, secret string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPost, "/api/v1/sessions/"+sessionID+"/secret",
		map[string]string{"player_id": playerID, "secret": secret})
}

func (ts *testServer) submitGuess(t *testing.T, sessionID, playerID, guess string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.request(http.MethodPost, "/api/v1/sessions/"+sessionID+"/guess",
		map[string]string{"player_id": playerID, "guess": guess})
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{"display_name": "Alice"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.CreateSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.PlayerID)
}

func TestCreateSessionRequiresDisplayName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, bob := ts.newMatch(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.Equal(t, sessionID, sess.ID)
	assert.Equal(t, string(model.StatusWaitingForSecrets), sess.Status)
	require.Len(t, sess.Players, 2)
	assert.Equal(t, alice, sess.Players[0].ID)
	assert.Equal(t, bob, sess.Players[1].ID)
}

func TestGetSessionNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_NOT_FOUND")
}

func TestJoinFullSession(t *testing.T) {
	ts := newTestServer(t)
	sessionID, _, _ := ts.newMatch(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sessionID+"/join", map[string]string{"display_name": "Carol"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "SESSION_FULL")
}

func TestSubmitSecret(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, _ := ts.newMatch(t)

	rr := ts.submitSecret(t, sessionID, alice, "1234")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The session view records the commitment but never the value
	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.True(t, sess.Players[0].SecretSet)
	assert.NotContains(t, rr.Body.String(), "1234")
}

func TestSubmitSecretInvalid(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, _ := ts.newMatch(t)

	rr := ts.submitSecret(t, sessionID, alice, "1123")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_SECRET")
}

func TestSubmitSecretTwice(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, _ := ts.newMatch(t)

	require.Equal(t, http.StatusNoContent, ts.submitSecret(t, sessionID, alice, "1234").Code)

	rr := ts.submitSecret(t, sessionID, alice, "5678")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_COMMITTED")
}

func TestGuessBeforeReady(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, _ := ts.newMatch(t)

	rr := ts.submitGuess(t, sessionID, alice, "5678")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_READY")
}

func TestFullMatchOverAPI(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, bob := ts.newMatch(t)

	require.Equal(t, http.StatusNoContent, ts.submitSecret(t, sessionID, alice, "1234").Code)
	require.Equal(t, http.StatusNoContent, ts.submitSecret(t, sessionID, bob, "5678").Code)

	// Alice opens with a partial hit
	rr := ts.submitGuess(t, sessionID, alice, "5687")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var guess response.GuessResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guess))
	assert.Equal(t, 2, guess.CorrectPositions)
	assert.Equal(t, 2, guess.CorrectDigits)
	assert.Equal(t, "+2, -2", guess.Result)
	assert.False(t, guess.GameOver)
	assert.Equal(t, bob, guess.NextPlayer)

	// Guessing out of turn is rejected
	rr = ts.submitGuess(t, sessionID, alice, "5678")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_YOUR_TURN")

	// Bob misses
	rr = ts.submitGuess(t, sessionID, bob, "9876")
	require.Equal(t, http.StatusOK, rr.Code)

	// Alice wins
	rr = ts.submitGuess(t, sessionID, alice, "5678")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guess))
	assert.True(t, guess.GameOver)
	assert.Equal(t, alice, guess.Winner)

	// Further guesses are rejected
	rr = ts.submitGuess(t, sessionID, bob, "1234")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_OVER")

	// The finished match is served from the archive
	rr = ts.request(http.MethodGet, "/api/v1/matches/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var match model.MatchRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
	assert.Equal(t, model.OutcomeWon, match.Outcome)
	assert.Equal(t, alice, string(match.Winner))
	assert.Len(t, match.Turns, 3)
}

func TestQuitSession(t *testing.T) {
	ts := newTestServer(t)
	sessionID, alice, bob := ts.newMatch(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+sessionID+"/quit", map[string]string{"player_id": bob})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	var sess response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sess))
	assert.Equal(t, string(model.StatusAbandoned), sess.Status)
	require.Len(t, sess.Players, 1)
	assert.Equal(t, alice, sess.Players[0].ID)
}

func TestListMatches(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/matches", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matches?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMatchNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/matches/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "MATCH_NOT_FOUND")
}

func TestEventsRequiresPlayerID(t *testing.T) {
	ts := newTestServer(t)
	sessionID, _, _ := ts.newMatch(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+sessionID+"/events", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventsUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)
	sessionID, _, _ := ts.newMatch(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+sessionID+"/events?player_id=ghost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "PLAYER_NOT_FOUND")
}
