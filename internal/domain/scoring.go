package domain

import "strings"

// Points awarded per answer
const (
	PointsUnique = 5 // Valid answer no other player gave
	PointsShared = 2 // Valid answer given by two or more players
	PointsNone   = 0 // Empty or not starting with the round's letter
)

// AnswerResult is the scored outcome of one (player, category) pair
type AnswerResult struct {
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Category   Category `json:"category"`
	Answer     string   `json:"answer"` // Normalized form
	Points     int      `json:"points"`
	Shared     bool     `json:"isShared"`
}

// ScoreRound computes the point awards for one round's submitted answers.
// It is a pure function: the room's scores are untouched, callers apply the
// returned per-player totals themselves.
//
// Per category: answers are grouped by their normalized form. An answer is
// valid iff it is non-empty and starts with the round's letter
// (case-insensitive). Valid unique answers score 5, valid answers shared by
// two or more players score 2 each, everything else scores 0. One result
// record is emitted per submitting player per category.
func ScoreRound(answers map[string]AnswerSheet, letter string, names map[string]string) ([]AnswerResult, map[string]int) {
	results := make([]AnswerResult, 0, len(answers)*len(Categories()))
	totals := make(map[string]int, len(answers))

	for _, category := range Categories() {
		// Group submitters by normalized answer
		groups := make(map[string][]string)
		for playerID, sheet := range answers {
			normalized := normalizeAnswer(sheet.Get(category))
			if normalized == "" {
				continue
			}
			groups[normalized] = append(groups[normalized], playerID)
		}

		for playerID, sheet := range answers {
			normalized := normalizeAnswer(sheet.Get(category))

			points := PointsNone
			shared := false
			if isValidAnswer(normalized, letter) {
				if len(groups[normalized]) > 1 {
					points = PointsShared
					shared = true
				} else {
					points = PointsUnique
				}
			}

			totals[playerID] += points
			results = append(results, AnswerResult{
				PlayerID:   playerID,
				PlayerName: names[playerID],
				Category:   category,
				Answer:     normalized,
				Points:     points,
				Shared:     shared,
			})
		}
	}

	return results, totals
}

// isValidAnswer reports whether a normalized answer counts for the letter
func isValidAnswer(normalized, letter string) bool {
	if normalized == "" {
		return false
	}
	return strings.EqualFold(normalized[:1], letter)
}
