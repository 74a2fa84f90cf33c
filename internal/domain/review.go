package domain

// GradeSheet holds one rater's per-category grades for a single target
// player, using the same 0/2/5 scale as the scoring engine.
type GradeSheet map[Category]int

// ValidGrade reports whether points is on the grading scale
func ValidGrade(points int) bool {
	return points == PointsNone || points == PointsShared || points == PointsUnique
}

// ReviewState tracks the peer-review phase of one round: which players have
// graded which targets, and who is ready to move on. It is created when a
// round ends and discarded when the next one begins.
type ReviewState struct {
	submitters map[string]bool                  // Players whose answers are up for review
	grades     map[string]map[string]GradeSheet // raterID -> targetID -> grades
	ready      map[string]bool
}

// NewReviewState creates the review state for a round whose answers came
// from the given players.
func NewReviewState(submitterIDs []string) *ReviewState {
	submitters := make(map[string]bool, len(submitterIDs))
	for _, id := range submitterIDs {
		submitters[id] = true
	}
	return &ReviewState{
		submitters: submitters,
		grades:     make(map[string]map[string]GradeSheet),
		ready:      make(map[string]bool),
	}
}

// CanGrade reports whether a grade from rater to target would currently be
// accepted, without recording anything. Self-grading and grading a player
// whose answers are not under review fail with ErrInvalidTarget; a rater who
// has marked ready gets ErrNotApplicable.
func (rs *ReviewState) CanGrade(raterID, targetID string) error {
	if targetID == raterID || !rs.submitters[targetID] {
		return ErrInvalidTarget
	}
	if rs.ready[raterID] {
		return ErrNotApplicable
	}
	return nil
}

// SubmitGrades records a rater's grades for one target, overwriting any
// previous grades for that target. Once the rater has marked ready their
// grades are frozen.
func (rs *ReviewState) SubmitGrades(raterID, targetID string, grades GradeSheet) error {
	if err := rs.CanGrade(raterID, targetID); err != nil {
		return err
	}

	if rs.grades[raterID] == nil {
		rs.grades[raterID] = make(map[string]GradeSheet)
	}
	rs.grades[raterID][targetID] = grades

	return nil
}

// MarkReady marks a player as ready to proceed. It is ignored (ErrNotApplicable)
// until the player has graded every target assigned to them.
func (rs *ReviewState) MarkReady(playerID string) error {
	if !rs.HasGradedAll(playerID) {
		return ErrNotApplicable
	}
	rs.ready[playerID] = true
	return nil
}

// HasGradedAll reports whether a player has graded every other submitter.
// A player with no targets (e.g. the only submitter) has trivially graded all.
func (rs *ReviewState) HasGradedAll(playerID string) bool {
	for targetID := range rs.submitters {
		if targetID == playerID {
			continue
		}
		if _, ok := rs.grades[playerID][targetID]; !ok {
			return false
		}
	}
	return true
}

// AllReady reports whether every given player is marked ready
func (rs *ReviewState) AllReady(playerIDs []string) bool {
	if len(playerIDs) == 0 {
		return false
	}
	for _, id := range playerIDs {
		if !rs.ready[id] {
			return false
		}
	}
	return true
}

// ReadyCount returns how many players are marked ready
func (rs *ReviewState) ReadyCount() int {
	return len(rs.ready)
}

// GradedCount returns how many players have graded all their targets
// among the given players.
func (rs *ReviewState) GradedCount(playerIDs []string) int {
	count := 0
	for _, id := range playerIDs {
		if rs.HasGradedAll(id) {
			count++
		}
	}
	return count
}

// RemovePlayer drops a departing player from the review entirely: their
// answers are no longer a grading target, their own grades are discarded,
// and they leave the ready set.
func (rs *ReviewState) RemovePlayer(playerID string) {
	delete(rs.submitters, playerID)
	delete(rs.grades, playerID)
	delete(rs.ready, playerID)
	for _, targets := range rs.grades {
		delete(targets, playerID)
	}
}

// Grades returns the recorded grades, keyed by rater then target
func (rs *ReviewState) Grades() map[string]map[string]GradeSheet {
	return rs.grades
}
