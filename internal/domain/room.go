package domain

import (
	"time"
)

// Settings holds configurable game parameters
type Settings struct {
	MinPlayers    int           `json:"minPlayers"`
	RoundDuration time.Duration `json:"roundDuration"`
	ReviewTimeout time.Duration `json:"reviewTimeout"`
}

// DefaultSettings returns the default game settings
func DefaultSettings() Settings {
	return Settings{
		MinPlayers:    2,
		RoundDuration: 35 * time.Second,
		ReviewTimeout: 60 * time.Second,
	}
}

// Room represents one isolated game session. All mutation goes through the
// guarded methods below; actions invalid for the current status return
// ErrNotApplicable and leave the room untouched.
type Room struct {
	Code           string                 `json:"code"`
	Players        []*Player              `json:"players"` // Join order; first player is host
	CurrentRound   int                    `json:"currentRound"`
	SelectedLetter string                 `json:"selectedLetter,omitempty"` // Empty until a letter is picked this round
	UsedLetters    []string               `json:"usedLetters"`
	RoundStartedAt time.Time              `json:"roundStartedAt,omitempty"`
	Answers        map[string]AnswerSheet `json:"-"` // playerID -> current round's answers
	Status         Status                 `json:"status"`
	RoundResults   []AnswerResult         `json:"roundResults,omitempty"` // Most recent round, for display
	Review         *ReviewState           `json:"-"`                      // Non-nil while reviewing
	Settings       Settings               `json:"settings"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// NewRoom creates a new empty room in waiting status
func NewRoom(code string, settings Settings, now time.Time) *Room {
	return &Room{
		Code:        code,
		Players:     make([]*Player, 0),
		UsedLetters: make([]string, 0),
		Answers:     make(map[string]AnswerSheet),
		Status:      StatusWaiting,
		Settings:    settings,
		CreatedAt:   now,
	}
}

// AddPlayer appends a player to the room. Joins are rejected while a game is
// in progress; joining a waiting or finished room is allowed.
func (r *Room) AddPlayer(playerID, name string, now time.Time) (*Player, error) {
	if r.Status.InProgress() {
		return nil, ErrGameInProgress
	}

	player := NewPlayer(playerID, name, now)
	r.Players = append(r.Players, player)

	return player, nil
}

// RemovePlayer removes a player and every per-round trace of them: their
// pending answers and their part in the current review.
func (r *Room) RemovePlayer(playerID string) error {
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPlayerNotFound
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.Answers, playerID)
	if r.Review != nil {
		r.Review.RemovePlayer(playerID)
	}

	return nil
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// HostID returns the ID of the host (first player in join order), or empty
// if the room has no players.
func (r *Room) HostID() string {
	if len(r.Players) == 0 {
		return ""
	}
	return r.Players[0].ID
}

// PlayerIDs returns all player IDs in join order
func (r *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// Scores returns the score table in join order
func (r *Room) Scores() []PlayerScore {
	scores := make([]PlayerScore, 0, len(r.Players))
	for _, p := range r.Players {
		scores = append(scores, p.ToScore())
	}
	return scores
}

// AvailableLetters returns the letters not yet used in this room
func (r *Room) AvailableLetters() []string {
	return AvailableLetters(r.UsedLetters)
}

// Start begins the game. Requires waiting status and at least MinPlayers
// players. The caller follows up with BeginRound.
func (r *Room) Start() error {
	if r.Status != StatusWaiting {
		return ErrNotApplicable
	}
	if len(r.Players) < r.Settings.MinPlayers {
		return ErrInsufficientPlayers
	}

	r.Status = StatusPlaying
	return nil
}

// BeginRound advances the room to the next round, or to finished when no
// unused letter remains. It returns true when a new round began and false
// when the game is over.
func (r *Room) BeginRound() (bool, error) {
	if r.Status != StatusPlaying && r.Status != StatusReviewing {
		return false, ErrNotApplicable
	}

	if len(r.AvailableLetters()) == 0 {
		r.Status = StatusFinished
		r.SelectedLetter = ""
		r.RoundStartedAt = time.Time{}
		r.Review = nil
		return false, nil
	}

	r.Status = StatusPlaying
	r.CurrentRound++
	r.SelectedLetter = ""
	r.RoundStartedAt = time.Time{}
	r.Answers = make(map[string]AnswerSheet)
	r.Review = nil

	return true, nil
}

// SelectLetter records the round's letter. First selection wins: a second
// attempt in the same round fails with ErrLetterAlreadySelected, and a
// letter used in an earlier round fails with ErrLetterAlreadyUsed.
func (r *Room) SelectLetter(letter string, now time.Time) error {
	if r.Status != StatusPlaying {
		return ErrNotApplicable
	}
	if r.SelectedLetter != "" {
		return ErrLetterAlreadySelected
	}
	for _, used := range r.UsedLetters {
		if used == letter {
			return ErrLetterAlreadyUsed
		}
	}

	r.SelectedLetter = letter
	r.UsedLetters = append(r.UsedLetters, letter)
	r.RoundStartedAt = now
	r.Answers = make(map[string]AnswerSheet)

	return nil
}

// SubmitAnswers records a player's answers for the current round.
// Resubmission overwrites the previous sheet (last write wins).
func (r *Room) SubmitAnswers(playerID string, sheet AnswerSheet) error {
	if r.Status != StatusPlaying || r.SelectedLetter == "" {
		return ErrNotApplicable
	}
	if _, err := r.GetPlayer(playerID); err != nil {
		return err
	}

	r.Answers[playerID] = sheet.Trimmed()
	return nil
}

// AllSubmitted reports whether every current member has submitted answers
// for the round in progress.
func (r *Room) AllSubmitted() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if _, ok := r.Answers[p.ID]; !ok {
			return false
		}
	}
	return true
}

// FinishRound scores the round and moves the room to reviewing. The status
// guard makes scoring exactly-once: whichever of the deadline timer and the
// all-submitted check runs second gets ErrNotApplicable and does nothing.
func (r *Room) FinishRound() ([]AnswerResult, error) {
	if !r.Status.CanTransitionTo(StatusReviewing) || r.SelectedLetter == "" {
		return nil, ErrNotApplicable
	}

	names := make(map[string]string, len(r.Players))
	for _, p := range r.Players {
		names[p.ID] = p.Name
	}

	results, totals := ScoreRound(r.Answers, r.SelectedLetter, names)
	for _, p := range r.Players {
		p.Score += totals[p.ID]
	}

	r.RoundResults = results
	r.Status = StatusReviewing

	submitters := make([]string, 0, len(r.Answers))
	for playerID := range r.Answers {
		submitters = append(submitters, playerID)
	}
	r.Review = NewReviewState(submitters)

	return results, nil
}

// CheckReviewGrade reports whether a grade from rater to target would
// currently be accepted, without recording anything.
func (r *Room) CheckReviewGrade(raterID, targetID string) error {
	if r.Status != StatusReviewing || r.Review == nil {
		return ErrNotApplicable
	}
	if _, err := r.GetPlayer(raterID); err != nil {
		return err
	}
	return r.Review.CanGrade(raterID, targetID)
}

// SubmitReviewGrades records a rater's grades for one target player.
// Valid only while reviewing.
func (r *Room) SubmitReviewGrades(raterID, targetID string, grades GradeSheet) error {
	if err := r.CheckReviewGrade(raterID, targetID); err != nil {
		return err
	}
	return r.Review.SubmitGrades(raterID, targetID, grades)
}

// MarkReady marks a player as ready to leave the review phase
func (r *Room) MarkReady(playerID string) error {
	if r.Status != StatusReviewing || r.Review == nil {
		return ErrNotApplicable
	}
	if _, err := r.GetPlayer(playerID); err != nil {
		return err
	}
	return r.Review.MarkReady(playerID)
}

// ReviewComplete reports whether every current member is ready to proceed
func (r *Room) ReviewComplete() bool {
	if r.Status != StatusReviewing || r.Review == nil {
		return false
	}
	return r.Review.AllReady(r.PlayerIDs())
}

// Winner returns the player with the strictly greatest cumulative score.
// Ties go to the earliest-joined player among the tied.
func (r *Room) Winner() (PlayerScore, bool) {
	if len(r.Players) == 0 {
		return PlayerScore{}, false
	}

	winner := r.Players[0]
	for _, p := range r.Players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner.ToScore(), true
}
