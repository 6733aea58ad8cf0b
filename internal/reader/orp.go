package reader

import "unicode/utf8"

// ORPIndex returns the Optimal Recognition Point of a word: the rune position
// the eye should fixate on for fastest recognition. Short words focus near
// the front, longer words about a third of the way in.
func ORPIndex(word string) int {
	length := utf8.RuneCountInString(word)
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		return 1
	default:
		return length / 3
	}
}
