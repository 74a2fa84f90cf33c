package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventRoomCreated     EventType = "roomCreated"
	EventRoomJoined      EventType = "roomJoined"
	EventJoinError       EventType = "joinError"
	EventGameStateUpdate EventType = "gameStateUpdate"
	EventRoundReady      EventType = "roundReady"
	EventRoundStarted    EventType = "roundStarted"
	EventAnswerSubmitted EventType = "answerSubmitted"
	EventRoundEnded      EventType = "roundEnded"
	EventReviewUpdate    EventType = "roundReviewUpdate"
	EventGameFinished    EventType = "gameFinished"
	EventError           EventType = "error"
)

// Event represents an outbound event pushed to room members
type Event struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is for one player only
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new room-wide event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new event addressed to a single player
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RoomCreatedPayload acknowledges room creation to the creator
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// RoomJoinedPayload acknowledges a successful join to the joiner
type RoomJoinedPayload struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// JoinErrorPayload is sent when a join attempt is rejected
type JoinErrorPayload struct {
	Message string `json:"message"`
}

// RoomStatePayload is the room snapshot broadcast on membership changes
type RoomStatePayload struct {
	RoomCode       string        `json:"roomCode"`
	Players        []PlayerScore `json:"players"`
	HostID         string        `json:"hostId"`
	CurrentRound   int           `json:"currentRound"`
	Status         Status        `json:"status"`
	SelectedLetter string        `json:"selectedLetter,omitempty"`
	UsedLetters    []string      `json:"usedLetters"`
}

// RoundReadyPayload is broadcast when a fresh round is open for letter selection
type RoundReadyPayload struct {
	Round            int           `json:"round"`
	UsedLetters      []string      `json:"usedLetters"`
	AvailableLetters []string      `json:"availableLetters"`
	Scores           []PlayerScore `json:"scores"`
}

// RoundStartedPayload is broadcast when a letter is selected and answering begins.
// StartTime and Duration are milliseconds, matching the client's clock math.
type RoundStartedPayload struct {
	Letter    string `json:"letter"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
}

// AnswerSubmittedPayload notifies the room that a player has submitted,
// without leaking answer content.
type AnswerSubmittedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PlayerAnswers pairs a player's name with their submitted sheet for review
type PlayerAnswers struct {
	PlayerName string      `json:"playerName"`
	Answers    AnswerSheet `json:"answers"`
}

// RoundEndedPayload is broadcast when a round is scored
type RoundEndedPayload struct {
	Results    []AnswerResult           `json:"results"`
	Scores     []PlayerScore            `json:"scores"`
	Letter     string                   `json:"letter"`
	AllAnswers map[string]PlayerAnswers `json:"allAnswers"`
}

// ReviewUpdatePayload is broadcast as peers grade and mark ready
type ReviewUpdatePayload struct {
	GradedCount int `json:"gradedCount"`
	ReadyCount  int `json:"readyCount"`
	Total       int `json:"total"`
}

// GameFinishedPayload is broadcast when the alphabet is exhausted
type GameFinishedPayload struct {
	Scores []PlayerScore `json:"scores"`
	Winner PlayerScore   `json:"winner"`
}

// ErrorPayload is sent to a single player when their action is rejected
type ErrorPayload struct {
	Message string `json:"message"`
}

// Snapshot builds the broadcastable view of a room
func (r *Room) Snapshot() *RoomStatePayload {
	return &RoomStatePayload{
		RoomCode:       r.Code,
		Players:        r.Scores(),
		HostID:         r.HostID(),
		CurrentRound:   r.CurrentRound,
		Status:         r.Status,
		SelectedLetter: r.SelectedLetter,
		UsedLetters:    append([]string(nil), r.UsedLetters...),
	}
}
