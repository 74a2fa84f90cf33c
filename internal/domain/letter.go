package domain

import "strings"

// Alphabet is the full set of selectable round letters
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NormalizeLetter uppercases a candidate letter and reports whether it is a
// single letter of the alphabet.
func NormalizeLetter(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return "", false
	}
	if !strings.Contains(Alphabet, s) {
		return "", false
	}
	return s, true
}

// AvailableLetters returns the alphabet minus the given used letters,
// in alphabetical order.
func AvailableLetters(used []string) []string {
	usedSet := make(map[string]bool, len(used))
	for _, l := range used {
		usedSet[l] = true
	}

	available := make([]string, 0, len(Alphabet)-len(used))
	for _, r := range Alphabet {
		if l := string(r); !usedSet[l] {
			available = append(available, l)
		}
	}
	return available
}
