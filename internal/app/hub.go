package app

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"nameit/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleRoomTimeout is how long an empty room may linger before the
	// sweep removes it. Rooms normally die with their last player; this
	// is a safety net.
	StaleRoomTimeout = 2 * time.Hour
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomHub is the process-wide registry of rooms. It owns the room-code to
// session mapping and the reverse playerID to room-code mapping; the two are
// always mutated together under the hub lock.
type RoomHub struct {
	sessions       map[string]*RoomSession
	players        map[string]string // playerID -> room code
	mu             sync.RWMutex
	settings       domain.Settings
	roomCodeLength int
	clock          clockwork.Clock
	logger         *slog.Logger
	done           chan struct{}
}

// NewRoomHub creates a new room hub
func NewRoomHub(settings domain.Settings, logger *slog.Logger, clock clockwork.Clock) *RoomHub {
	hub := &RoomHub{
		sessions:       make(map[string]*RoomSession),
		players:        make(map[string]string),
		settings:       settings,
		roomCodeLength: DefaultRoomCodeLength,
		clock:          clock,
		logger:         logger,
		done:           make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a new room with the requesting player as host
func (h *RoomHub) CreateRoom(playerID, playerName string) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}
	if _, exists := h.sessions[roomCode]; exists {
		return nil, domain.ErrRoomCodeExhausted
	}

	room := domain.NewRoom(roomCode, h.settings, h.clock.Now())
	session := NewRoomSession(room, h.logger, h.clock)
	h.sessions[roomCode] = session
	h.players[playerID] = roomCode

	if _, err := session.AddPlayer(playerID, playerName); err != nil {
		// Cannot happen for a fresh waiting room; unwind anyway
		delete(h.sessions, roomCode)
		delete(h.players, playerID)
		session.Close()
		return nil, err
	}

	h.logger.Info("room created", "roomCode", roomCode, "host", playerID)

	return session, nil
}

// JoinRoom adds a player to an existing room. Fails with ErrRoomNotFound for
// unknown codes and ErrGameInProgress while a game is being played.
func (h *RoomHub) JoinRoom(roomCode, playerID, playerName string) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	if _, err := session.AddPlayer(playerID, playerName); err != nil {
		return nil, err
	}
	h.players[playerID] = roomCode

	h.logger.Info("player joined", "roomCode", roomCode, "playerID", playerID)

	return session, nil
}

// SessionForPlayer returns the session the player currently belongs to
func (h *RoomHub) SessionForPlayer(playerID string) (*RoomSession, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomCode, ok := h.players[playerID]
	if !ok {
		return nil, false
	}
	session, ok := h.sessions[roomCode]
	return session, ok
}

// GetSession returns a session by room code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// RemovePlayer handles a disconnect: the player leaves their room, and the
// room is destroyed together with both registry entries when it empties.
func (h *RoomHub) RemovePlayer(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomCode, ok := h.players[playerID]
	if !ok {
		return
	}
	delete(h.players, playerID)

	session, ok := h.sessions[roomCode]
	if !ok {
		return
	}

	remaining, err := session.RemovePlayer(playerID)
	if err != nil {
		return
	}

	if remaining == 0 {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("room destroyed", "roomCode", roomCode)
		return
	}

	h.logger.Info("player left", "roomCode", roomCode, "playerID", playerID, "remaining", remaining)
}

// SessionCount returns the number of active rooms
func (h *RoomHub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// PlayerCount returns the total number of players across all rooms
func (h *RoomHub) PlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.players)
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
	h.players = make(map[string]string)
}

// generateRoomCode generates a random room code
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.roomCodeLength)
	rand.Read(b)

	code := make([]byte, h.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically sweeps rooms that emptied without teardown
func (h *RoomHub) cleanupLoop() {
	ticker := h.clock.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.Chan():
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms that have sat empty for too long
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()

	for roomCode, session := range h.sessions {
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > StaleRoomTimeout {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("stale room cleaned up", "roomCode", roomCode)
		}
	}
}
