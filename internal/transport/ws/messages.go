package ws

import "encoding/json"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom         MessageType = "createRoom"
	MsgJoinRoom           MessageType = "joinRoom"
	MsgStartGame          MessageType = "startGame"
	MsgSelectLetter       MessageType = "selectLetter"
	MsgSubmitAnswers      MessageType = "submitAnswers"
	MsgSubmitReviewGrades MessageType = "submitReviewGrades"
	MsgMarkReady          MessageType = "markReady"
	MsgPing               MessageType = "ping"
)

// Server → Client message types (besides domain events, which are sent as-is)
const (
	MsgPong MessageType = "pong"
)

// ClientMessage represents a message from client to server. Payloads are
// decoded per message type by the handlers.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message payloads

// CreateRoomPayload is the payload for createRoom
type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

// JoinRoomPayload is the payload for joinRoom
type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// SelectLetterPayload is the payload for selectLetter
type SelectLetterPayload struct {
	Letter string `json:"letter"`
}

// SubmitAnswersPayload is the payload for submitAnswers
type SubmitAnswersPayload struct {
	People  string `json:"people"`
	Animals string `json:"animals"`
	Places  string `json:"places"`
	Things  string `json:"things"`
}

// SubmitReviewGradesPayload is the payload for submitReviewGrades: the
// sender's 0/2/5 grades per target player per category.
type SubmitReviewGradesPayload struct {
	Grades map[string]map[string]int `json:"grades"` // targetPlayerId -> category -> points
}
