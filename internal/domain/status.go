package domain

// Status represents the current phase of a room's game
type Status string

const (
	StatusWaiting   Status = "waiting"   // Lobby, players joining
	StatusPlaying   Status = "playing"   // Round in progress (letter pending or answering)
	StatusReviewing Status = "reviewing" // Round scored, peers grading answers
	StatusFinished  Status = "finished"  // All letters used, game over
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// InProgress reports whether a game is actively being played.
// Rooms in these states reject new joins.
func (s Status) InProgress() bool {
	return s == StatusPlaying || s == StatusReviewing
}

// CanTransitionTo checks if a transition from the current status to the target is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:   {StatusPlaying},
		StatusPlaying:   {StatusReviewing},
		StatusReviewing: {StatusPlaying, StatusFinished},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
