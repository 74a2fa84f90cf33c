package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"nameit/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	Close() error
}

// RoomSession wraps a room with concurrency control, client fan-out and the
// timers that drive automatic phase transitions. Every state mutation runs
// under the session mutex, so transitions for one room never race.
type RoomSession struct {
	room      *domain.Room
	mu        sync.Mutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	clock     clockwork.Clock
	logger    *slog.Logger

	events chan *domain.Event
	done   chan struct{}
}

// NewRoomSession creates a new session for the given room
func NewRoomSession(room *domain.Room, logger *slog.Logger, clock clockwork.Clock) *RoomSession {
	session := &RoomSession{
		room:    room,
		clients: make(map[string]ClientConnection),
		clock:   clock,
		logger:  logger.With("roomCode", room.Code),
		events:  make(chan *domain.Event, 100),
		done:    make(chan struct{}),
	}

	go session.eventLoop()

	return session
}

// RoomCode returns the room code
func (s *RoomSession) RoomCode() string {
	return s.room.Code
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// PlayerCount returns the number of players in the room
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// Status returns the room's current status
func (s *RoomSession) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Status
}

// Snapshot returns the broadcastable view of the room
func (s *RoomSession) Snapshot() *domain.RoomStatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Snapshot()
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// AddPlayer adds a player to the room and broadcasts the new state
func (s *RoomSession) AddPlayer(playerID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.AddPlayer(playerID, name, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.queueEvent(domain.NewEvent(domain.EventGameStateUpdate, s.room.Code, s.room.Snapshot()))

	return player, nil
}

// RemovePlayer removes a player and returns the number of players left.
// A departure shrinks the submission and readiness quorums, so it can be
// the thing that completes the current phase.
func (s *RoomSession) RemovePlayer(playerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.RemovePlayer(playerID); err != nil {
		return len(s.room.Players), err
	}

	remaining := len(s.room.Players)
	if remaining == 0 {
		return 0, nil
	}

	s.queueEvent(domain.NewEvent(domain.EventGameStateUpdate, s.room.Code, s.room.Snapshot()))

	switch {
	case s.room.Status == domain.StatusPlaying && s.room.SelectedLetter != "" && s.room.AllSubmitted():
		s.endRoundLocked()
	case s.room.ReviewComplete():
		s.advanceRoundLocked()
	}

	return remaining, nil
}

// StartGame starts the game and opens round 1 for letter selection
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.GetPlayer(playerID); err != nil {
		return err
	}

	if err := s.room.Start(); err != nil {
		return err
	}

	s.logger.Info("game started", "players", len(s.room.Players))
	s.advanceRoundLocked()

	return nil
}

// SelectLetter records the round's letter, broadcasts the round start and
// arms the deadline timer. Any player may select; the first wins.
func (s *RoomSession) SelectLetter(playerID, letter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.GetPlayer(playerID); err != nil {
		return err
	}

	now := s.clock.Now()
	if err := s.room.SelectLetter(letter, now); err != nil {
		return err
	}

	s.logger.Info("letter selected", "round", s.room.CurrentRound, "letter", letter, "by", playerID)

	s.queueEvent(domain.NewEvent(domain.EventRoundStarted, s.room.Code, &domain.RoundStartedPayload{
		Letter:    letter,
		StartTime: now.UnixMilli(),
		Duration:  s.room.Settings.RoundDuration.Milliseconds(),
	}))

	s.armRoundDeadline(s.room.CurrentRound, letter)

	return nil
}

// SubmitAnswers records a player's answers. When the last member submits,
// the round ends immediately; otherwise the room is told someone submitted.
func (s *RoomSession) SubmitAnswers(playerID string, sheet domain.AnswerSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if err := s.room.SubmitAnswers(playerID, sheet); err != nil {
		return err
	}

	if s.room.AllSubmitted() {
		s.endRoundLocked()
		return nil
	}

	s.queueEvent(domain.NewEvent(domain.EventAnswerSubmitted, s.room.Code, &domain.AnswerSubmittedPayload{
		PlayerID:   playerID,
		PlayerName: player.Name,
	}))

	return nil
}

// SubmitReviewGrades records a rater's grades, one sheet per target. The
// batch is checked as a whole before any sheet lands, so a bad target never
// leaves it half-applied.
func (s *RoomSession) SubmitReviewGrades(raterID string, grades map[string]domain.GradeSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for targetID := range grades {
		if err := s.room.CheckReviewGrade(raterID, targetID); err != nil {
			return err
		}
	}
	for targetID, sheet := range grades {
		if err := s.room.SubmitReviewGrades(raterID, targetID, sheet); err != nil {
			return err
		}
	}

	s.queueReviewUpdateLocked()

	return nil
}

// MarkReady marks a player as ready to proceed past the review. The round
// advances once every remaining player is ready.
func (s *RoomSession) MarkReady(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.MarkReady(playerID); err != nil {
		return err
	}

	s.queueReviewUpdateLocked()

	if s.room.ReviewComplete() {
		s.advanceRoundLocked()
	}

	return nil
}

// armRoundDeadline starts the timer that force-ends the round. The captured
// round number and letter identify the round; if the room has moved on by
// the time the timer fires, the callback is a no-op.
func (s *RoomSession) armRoundDeadline(round int, letter string) {
	timer := s.clock.NewTimer(s.room.Settings.RoundDuration)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.Chan():
			s.roundDeadlineExpired(round, letter)
		case <-s.done:
		}
	}()
}

// roundDeadlineExpired ends the round if it is still the one the timer was
// armed for. Stale timers from superseded rounds fall through the guard.
func (s *RoomSession) roundDeadlineExpired(round int, letter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Status != domain.StatusPlaying ||
		s.room.CurrentRound != round ||
		s.room.SelectedLetter != letter {
		return
	}

	s.logger.Info("round deadline reached", "round", round, "letter", letter)
	s.endRoundLocked()
}

// armReviewTimeout starts the fallback timer that advances a review stalled
// on an unresponsive peer.
func (s *RoomSession) armReviewTimeout(round int) {
	timer := s.clock.NewTimer(s.room.Settings.ReviewTimeout)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.Chan():
			s.reviewTimeoutExpired(round)
		case <-s.done:
		}
	}()
}

func (s *RoomSession) reviewTimeoutExpired(round int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Status != domain.StatusReviewing || s.room.CurrentRound != round {
		return
	}

	s.logger.Info("review timeout reached", "round", round)
	s.advanceRoundLocked()
}

// endRoundLocked scores the round exactly once and enters the review phase.
// Caller must hold the session mutex.
func (s *RoomSession) endRoundLocked() {
	letter := s.room.SelectedLetter

	results, err := s.room.FinishRound()
	if err != nil {
		// Round already ended through the other trigger
		return
	}

	allAnswers := make(map[string]domain.PlayerAnswers, len(s.room.Answers))
	for playerID, sheet := range s.room.Answers {
		if player, err := s.room.GetPlayer(playerID); err == nil {
			allAnswers[playerID] = domain.PlayerAnswers{
				PlayerName: player.Name,
				Answers:    sheet,
			}
		}
	}

	s.logger.Info("round ended", "round", s.room.CurrentRound, "letter", letter)

	s.queueEvent(domain.NewEvent(domain.EventRoundEnded, s.room.Code, &domain.RoundEndedPayload{
		Results:    results,
		Scores:     s.room.Scores(),
		Letter:     letter,
		AllAnswers: allAnswers,
	}))

	s.armReviewTimeout(s.room.CurrentRound)
}

// advanceRoundLocked opens the next round or finishes the game.
// Caller must hold the session mutex.
func (s *RoomSession) advanceRoundLocked() {
	began, err := s.room.BeginRound()
	if err != nil {
		return
	}

	if !began {
		winner, _ := s.room.Winner()
		s.logger.Info("game finished", "winner", winner.PlayerID, "score", winner.Score)
		s.queueEvent(domain.NewEvent(domain.EventGameFinished, s.room.Code, &domain.GameFinishedPayload{
			Scores: s.room.Scores(),
			Winner: winner,
		}))
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventRoundReady, s.room.Code, &domain.RoundReadyPayload{
		Round:            s.room.CurrentRound,
		UsedLetters:      append([]string(nil), s.room.UsedLetters...),
		AvailableLetters: s.room.AvailableLetters(),
		Scores:           s.room.Scores(),
	}))
}

// queueReviewUpdateLocked broadcasts review progress.
// Caller must hold the session mutex.
func (s *RoomSession) queueReviewUpdateLocked() {
	if s.room.Review == nil {
		return
	}

	ids := s.room.PlayerIDs()
	s.queueEvent(domain.NewEvent(domain.EventReviewUpdate, s.room.Code, &domain.ReviewUpdatePayload{
		GradedCount: s.room.Review.GradedCount(ids),
		ReadyCount:  s.room.Review.ReadyCount(),
		Total:       len(ids),
	}))
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the addressed player, or to everyone
func (s *RoomSession) broadcastEvent(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts down the session. Outstanding timer goroutines exit through
// the done channel, so callbacks against a destroyed room never run.
func (s *RoomSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
