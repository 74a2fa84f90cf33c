package app

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameit/internal/domain"
)

func newTestHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(testSettings(), testLogger(), clockwork.NewFakeClock())
	t.Cleanup(hub.Close)
	return hub
}

func TestHubCreateRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	assert.Len(t, session.RoomCode(), DefaultRoomCodeLength)
	assert.Equal(t, 1, hub.SessionCount())
	assert.Equal(t, 1, hub.PlayerCount())
	assert.Equal(t, domain.StatusWaiting, session.Status())

	// Creator is registered and is the host
	found, ok := hub.SessionForPlayer("p1")
	require.True(t, ok)
	assert.Same(t, session, found)
	assert.Equal(t, "p1", session.Snapshot().HostID)
}

func TestHubRoomCodesAreUnique(t *testing.T) {
	hub := newTestHub(t)

	codes := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := hub.CreateRoom(string(rune('a'+i)), "Player")
		require.NoError(t, err)
		assert.False(t, codes[session.RoomCode()])
		codes[session.RoomCode()] = true
	}
}

func TestHubJoinRoom(t *testing.T) {
	hub := newTestHub(t)

	created, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)

	joined, err := hub.JoinRoom(created.RoomCode(), "p2", "Ben")
	require.NoError(t, err)
	assert.Same(t, created, joined)
	assert.Equal(t, 2, joined.PlayerCount())
	assert.Equal(t, 2, hub.PlayerCount())
}

func TestHubJoinUnknownRoom(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.JoinRoom("NOPE42", "p1", "Alice")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 0, hub.PlayerCount())
}

func TestHubJoinRejectedMidGame(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)
	_, err = hub.JoinRoom(session.RoomCode(), "p2", "Ben")
	require.NoError(t, err)

	require.NoError(t, session.StartGame("p1"))

	_, err = hub.JoinRoom(session.RoomCode(), "p3", "Carol")
	assert.ErrorIs(t, err, domain.ErrGameInProgress)

	_, ok := hub.SessionForPlayer("p3")
	assert.False(t, ok)
}

func TestHubRemovePlayerDestroysEmptyRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("p1", "Alice")
	require.NoError(t, err)
	_, err = hub.JoinRoom(session.RoomCode(), "p2", "Ben")
	require.NoError(t, err)
	roomCode := session.RoomCode()

	hub.RemovePlayer("p1")
	assert.Equal(t, 1, hub.SessionCount())
	assert.Equal(t, 1, hub.PlayerCount())

	// Last player out: room and both registry entries go together
	hub.RemovePlayer("p2")
	assert.Equal(t, 0, hub.SessionCount())
	assert.Equal(t, 0, hub.PlayerCount())

	_, err = hub.GetSession(roomCode)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, ok := hub.SessionForPlayer("p2")
	assert.False(t, ok)
}

func TestHubRemoveUnknownPlayerIsNoOp(t *testing.T) {
	hub := newTestHub(t)

	hub.RemovePlayer("ghost")
	assert.Equal(t, 0, hub.SessionCount())
}
