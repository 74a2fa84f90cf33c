package domain

import "strings"

// AnswerSheet holds one player's answers for a round, one per category.
// Empty strings are allowed; they simply score zero.
type AnswerSheet struct {
	People  string `json:"people"`
	Animals string `json:"animals"`
	Places  string `json:"places"`
	Things  string `json:"things"`
}

// Trimmed returns a copy of the sheet with surrounding whitespace removed
// from every answer. Original casing is preserved for display.
func (a AnswerSheet) Trimmed() AnswerSheet {
	return AnswerSheet{
		People:  strings.TrimSpace(a.People),
		Animals: strings.TrimSpace(a.Animals),
		Places:  strings.TrimSpace(a.Places),
		Things:  strings.TrimSpace(a.Things),
	}
}

// Get returns the answer for the given category
func (a AnswerSheet) Get(c Category) string {
	switch c {
	case CategoryPeople:
		return a.People
	case CategoryAnimals:
		return a.Animals
	case CategoryPlaces:
		return a.Places
	case CategoryThings:
		return a.Things
	}
	return ""
}

// normalizeAnswer produces the comparison form of an answer:
// trimmed and case-folded. Used for grouping only.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
