package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nameit/internal/app"
	"nameit/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

var (
	errUnknownCategory = errors.New("unknown category")
	errInvalidGrade    = errors.New("grade must be 0, 2 or 5")
)

// Client represents a WebSocket client connection. A client binds to at
// most one room session, established by its first createRoom or joinRoom
// message.
type Client struct {
	conn     *websocket.Conn
	hub      *app.RoomHub
	session  *app.RoomSession
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection. Its exit is the
// disconnect signal: the player implicitly leaves their room.
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			c.session.UnregisterClient(c.playerID)
		}
		c.hub.RemovePlayer(c.playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgStartGame:
		c.handleStartGame()
	case MsgSelectLetter:
		c.handleSelectLetter(msg.Payload)
	case MsgSubmitAnswers:
		c.handleSubmitAnswers(msg.Payload)
	case MsgSubmitReviewGrades:
		c.handleSubmitReviewGrades(msg.Payload)
	case MsgMarkReady:
		c.handleMarkReady()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError("Unknown message type")
	}
}

// handleCreateRoom handles a createRoom message
func (c *Client) handleCreateRoom(payload json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.PlayerName) == "" {
		c.sendError("Player name is required")
		return
	}

	if c.session != nil {
		c.sendError("Already in a room")
		return
	}

	session, err := c.hub.CreateRoom(c.playerID, strings.TrimSpace(p.PlayerName))
	if err != nil {
		c.sendError("Failed to create room")
		return
	}

	c.session = session
	session.RegisterClient(c.playerID, c)

	c.sendEvent(domain.NewPlayerEvent(domain.EventRoomCreated, session.RoomCode(), c.playerID, &domain.RoomCreatedPayload{
		RoomCode: session.RoomCode(),
		PlayerID: c.playerID,
	}))
	// The state broadcast was queued before this client registered;
	// send the snapshot directly so the creator sees the room.
	c.sendEvent(domain.NewEvent(domain.EventGameStateUpdate, session.RoomCode(), session.Snapshot()))
}

// handleJoinRoom handles a joinRoom message
func (c *Client) handleJoinRoom(payload json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.PlayerName) == "" {
		c.sendError("Player name is required")
		return
	}

	if c.session != nil {
		c.sendError("Already in a room")
		return
	}

	roomCode := strings.ToUpper(strings.TrimSpace(p.RoomCode))
	session, err := c.hub.JoinRoom(roomCode, c.playerID, strings.TrimSpace(p.PlayerName))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			c.sendJoinError("Room not found")
		case errors.Is(err, domain.ErrGameInProgress):
			c.sendJoinError("Game already in progress")
		default:
			c.sendJoinError("Failed to join room")
		}
		return
	}

	c.session = session
	session.RegisterClient(c.playerID, c)

	c.sendEvent(domain.NewPlayerEvent(domain.EventRoomJoined, session.RoomCode(), c.playerID, &domain.RoomJoinedPayload{
		RoomCode: session.RoomCode(),
		PlayerID: c.playerID,
	}))
	c.sendEvent(domain.NewEvent(domain.EventGameStateUpdate, session.RoomCode(), session.Snapshot()))
}

// handleStartGame handles a startGame message
func (c *Client) handleStartGame() {
	if c.session == nil {
		return
	}
	c.reportError(c.session.StartGame(c.playerID))
}

// handleSelectLetter handles a selectLetter message
func (c *Client) handleSelectLetter(payload json.RawMessage) {
	if c.session == nil {
		return
	}

	var p SelectLetterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("Invalid payload")
		return
	}

	letter, ok := domain.NormalizeLetter(p.Letter)
	if !ok {
		c.sendError("Invalid letter")
		return
	}

	c.reportError(c.session.SelectLetter(c.playerID, letter))
}

// handleSubmitAnswers handles a submitAnswers message
func (c *Client) handleSubmitAnswers(payload json.RawMessage) {
	if c.session == nil {
		return
	}

	var p SubmitAnswersPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("Invalid payload")
		return
	}

	c.reportError(c.session.SubmitAnswers(c.playerID, domain.AnswerSheet{
		People:  p.People,
		Animals: p.Animals,
		Places:  p.Places,
		Things:  p.Things,
	}))
}

// handleSubmitReviewGrades handles a submitReviewGrades message
func (c *Client) handleSubmitReviewGrades(payload json.RawMessage) {
	if c.session == nil {
		return
	}

	var p SubmitReviewGradesPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Grades == nil {
		c.sendError("Invalid payload")
		return
	}

	grades, err := decodeGradeSheets(p.Grades)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.reportError(c.session.SubmitReviewGrades(c.playerID, grades))
}

// decodeGradeSheets converts the wire grade map into domain grade sheets.
// Unknown categories and points off the 0/2/5 scale are rejected outright
// rather than handed to the room.
func decodeGradeSheets(raw map[string]map[string]int) (map[string]domain.GradeSheet, error) {
	grades := make(map[string]domain.GradeSheet, len(raw))
	for targetID, byCategory := range raw {
		sheet := make(domain.GradeSheet, len(byCategory))
		for name, points := range byCategory {
			category, ok := domain.ParseCategory(name)
			if !ok {
				return nil, errUnknownCategory
			}
			if !domain.ValidGrade(points) {
				return nil, errInvalidGrade
			}
			sheet[category] = points
		}
		grades[targetID] = sheet
	}
	return grades, nil
}

// handleMarkReady handles a markReady message
func (c *Client) handleMarkReady() {
	if c.session == nil {
		return
	}
	c.reportError(c.session.MarkReady(c.playerID))
}

// reportError maps a domain error to a message for the sender. Out-of-state
// actions (ErrNotApplicable) and races on already-departed players are
// dropped silently: they are expected around phase changes.
func (c *Client) reportError(err error) {
	if err == nil ||
		errors.Is(err, domain.ErrNotApplicable) ||
		errors.Is(err, domain.ErrPlayerNotFound) {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientPlayers),
		errors.Is(err, domain.ErrLetterAlreadySelected),
		errors.Is(err, domain.ErrLetterAlreadyUsed),
		errors.Is(err, domain.ErrInvalidTarget):
		c.sendError(err.Error())
	default:
		c.sendError("Something went wrong")
	}
}

// sendEvent sends a single event to this client
func (c *Client) sendEvent(event *domain.Event) {
	c.Send(event)
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	roomCode := ""
	if c.session != nil {
		roomCode = c.session.RoomCode()
	}
	c.sendEvent(domain.NewPlayerEvent(domain.EventError, roomCode, c.playerID, &domain.ErrorPayload{
		Message: message,
	}))
}

// sendJoinError sends a join rejection to the client
func (c *Client) sendJoinError(message string) {
	c.sendEvent(domain.NewPlayerEvent(domain.EventJoinError, "", c.playerID, &domain.JoinErrorPayload{
		Message: message,
	}))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.sendEvent(domain.NewPlayerEvent(domain.EventType(MsgPong), "", c.playerID, nil))
}
