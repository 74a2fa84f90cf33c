package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrGameInProgress        = errors.New("game already in progress")
	ErrInsufficientPlayers   = errors.New("need at least 2 players to start")
	ErrLetterAlreadySelected = errors.New("a letter has already been selected for this round")
	ErrLetterAlreadyUsed     = errors.New("letter already used")
	ErrInvalidTarget         = errors.New("invalid grading target")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrRoomCodeExhausted     = errors.New("failed to generate unique room code")

	// ErrNotApplicable marks an action that is not valid in the room's
	// current state. Callers drop it silently instead of reporting it:
	// out-of-sequence actions are expected during phase changes.
	ErrNotApplicable = errors.New("not applicable in current state")
)
