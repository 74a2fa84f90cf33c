package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameit/internal/app"
	"nameit/internal/config"
	"nameit/internal/domain"
)

func newTestServer(t *testing.T) (*Server, *app.RoomHub) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := app.NewRoomHub(domain.DefaultSettings(), logger, clockwork.NewFakeClock())
	t.Cleanup(hub.Close)

	return NewServer(config.Load(), hub, logger), hub
}

func doRequest(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return rec, body
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestStatsEndpoint(t *testing.T) {
	s, hub := newTestServer(t)

	_, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	rec, body := doRequest(t, s, http.MethodGet, "/api/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["activeRooms"])
	assert.Equal(t, float64(1), data["totalPlayers"])
}

func TestGetRoomEndpoint(t *testing.T) {
	s, hub := newTestServer(t)

	session, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	rec, body := doRequest(t, s, http.MethodGet, "/api/rooms/"+session.RoomCode())

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, session.RoomCode(), data["roomCode"])
	assert.Equal(t, "waiting", data["status"])
	assert.Equal(t, true, data["canJoin"])
}

func TestGetRoomNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := doRequest(t, s, http.MethodGet, "/api/rooms/NOPE42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ROOM_NOT_FOUND", body.Error.Code)
}

func TestRoomExistsEndpoint(t *testing.T) {
	s, hub := newTestServer(t)

	session, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	_, body := doRequest(t, s, http.MethodGet, "/api/rooms/"+session.RoomCode()+"/exists")
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["exists"])

	_, body = doRequest(t, s, http.MethodGet, "/api/rooms/NOPE42/exists")
	data, ok = body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["exists"])
}
