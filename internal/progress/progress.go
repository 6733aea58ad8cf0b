// Package progress derives completion and time-remaining estimates from the
// reading position and pace.
package progress

import (
	"fmt"
	"strings"
	"time"
)

// Fraction returns the completed share of the text, 0 for an empty text.
func Fraction(current, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(current) / float64(total)
}

// Remaining estimates the reading time left at the given pace.
func Remaining(current, total, wpm int) time.Duration {
	if total == 0 || wpm <= 0 {
		return 0
	}
	totalSec := float64(total) / float64(wpm) * 60
	elapsedSec := float64(current) / float64(wpm) * 60
	rem := totalSec - elapsedSec
	if rem < 0 {
		rem = 0
	}
	return time.Duration(rem * float64(time.Second))
}

// FormatDuration renders a duration as combined hours, minutes, and seconds,
// dropping leading zero-valued units. Seconds always appear: "1h 0m 5s",
// "4m 0s", "12s".
func FormatDuration(d time.Duration) string {
	s := int(d.Seconds())
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60

	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || h > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", sec))
	return strings.Join(parts, " ")
}

// Summary builds the status line shown under the reader, empty when no text
// is loaded.
func Summary(current, total, wpm int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d • %d wpm • est. %s left",
		current, total, wpm, FormatDuration(Remaining(current, total, wpm)))
}
