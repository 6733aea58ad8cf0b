// Package reader provides the core RSVP (Rapid Serial Visual Presentation)
// reading session: tokenizing, playback timing, and seeking.
package reader

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNoText is returned when a session is prepared from empty input.
var ErrNoText = errors.New("no text to read")

// MinWPM is the slowest allowed pace.
const MinWPM = 10

// maxTitleWords caps how long a first line may be to count as a title.
const maxTitleWords = 20

// Timing tunes the per-word display duration. The delay for a word is
// base × (Floor + runeLen(word)/LengthDivisor), where base = 60000/WPM ms.
type Timing struct {
	Floor         float64
	LengthDivisor float64
}

// DefaultTiming is the stock tuning. An alternate (0.65, 10) tuning reads
// slightly slower on long words.
var DefaultTiming = Timing{Floor: 0.6, LengthDivisor: 12}

// TickResult reports what a Tick did.
type TickResult int

const (
	// TickStale means the tick was cancelled in flight and must be ignored.
	TickStale TickResult = iota
	// TickAdvanced means the position moved forward one word.
	TickAdvanced
	// TickFinished means the end was reached and playback auto-paused.
	TickFinished
)

// Session holds the state for one loaded text: the token sequence, the
// reading position, and the playback state machine. A new text load replaces
// the session wholesale.
//
// Current ranges over [0, len(Tokens)]; Current == len(Tokens) is the
// finished state, where the flash word is empty.
type Session struct {
	Tokens []string
	Title  string

	Current int
	WPM     int
	Timing  Timing

	playing bool
	tickGen int
}

// NewSession tokenizes raw text and returns a paused session at position 0.
func NewSession(raw string, wpm int) (*Session, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoText
	}
	if wpm < MinWPM {
		wpm = MinWPM
	}
	return &Session{
		Tokens: Tokenize(trimmed),
		Title:  DetectTitle(trimmed),
		WPM:    wpm,
		Timing: DefaultTiming,
	}, nil
}

// Tokenize collapses whitespace runs (spaces, tabs, newlines, and Unicode
// spaces such as NBSP) and splits the text into words. Punctuation stays
// attached to its word.
func Tokenize(raw string) []string {
	return strings.Fields(raw)
}

// DetectTitle returns the first line when it has at most 20 space-separated
// words, otherwise "". The check runs on the raw line, before whitespace
// collapsing.
func DetectTitle(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" || len(strings.Split(line, " ")) > maxTitleWords {
		return ""
	}
	return line
}

// Playing reports whether a tick chain is live.
func (s *Session) Playing() bool { return s.playing }

// Len returns the token count.
func (s *Session) Len() int { return len(s.Tokens) }

// Finished reports whether the position is at or past the last word.
func (s *Session) Finished() bool { return s.Current >= len(s.Tokens) }

// CurrentWord returns the token at the reading position, empty once finished.
func (s *Session) CurrentWord() string {
	if s.Current >= 0 && s.Current < len(s.Tokens) {
		return s.Tokens[s.Current]
	}
	return ""
}

// TogglePlayPause flips the playback state. When playback starts it returns
// the generation for the first tick, which should be scheduled with zero
// delay so the first word shows instantly. Starting at or past the end wraps
// to the beginning.
func (s *Session) TogglePlayPause() (gen int, playing bool) {
	if s.playing {
		s.Pause()
		return 0, false
	}
	if s.Current >= len(s.Tokens) {
		s.Current = 0
	}
	s.playing = true
	return s.nextGen(), true
}

// Pause stops playback and cancels the pending tick by invalidating its
// generation. Pausing an already-paused session is a no-op.
func (s *Session) Pause() {
	s.playing = false
	s.tickGen++
}

// Tick processes one scheduled advancement. gen must be the generation issued
// when the tick was scheduled; a mismatch means the tick was cancelled while
// in flight (pause, seek, or speed change) and it is dropped without touching
// any state. On TickAdvanced the returned generation arms the next tick, so
// exactly one valid tick is ever outstanding.
func (s *Session) Tick(gen int) (TickResult, int) {
	if !s.playing || gen != s.tickGen {
		return TickStale, 0
	}
	if s.Current >= len(s.Tokens) {
		s.Pause()
		return TickFinished, 0
	}
	s.Current++
	return TickAdvanced, s.nextGen()
}

// Delay returns how long the word at the current position stays on screen.
// Longer words linger proportionally longer. WPM is read fresh here, so a
// speed change takes effect on the next tick.
func (s *Session) Delay() time.Duration {
	base := 60000.0 / float64(s.WPM)
	length := 0
	if s.Current < len(s.Tokens) {
		length = utf8.RuneCountInString(s.Tokens[s.Current])
	}
	factor := s.Timing.Floor + float64(length)/s.Timing.LengthDivisor
	return time.Duration(base*factor) * time.Millisecond
}

// SetWPM changes the pace, clamped to MinWPM. While playing the pending tick
// is cancelled and the caller should schedule a fresh tick at zero delay so
// the change is felt without waiting out the stale interval.
func (s *Session) SetWPM(wpm int) (gen int, reschedule bool) {
	if wpm < MinWPM {
		wpm = MinWPM
	}
	s.WPM = wpm
	if !s.playing {
		return 0, false
	}
	return s.nextGen(), true
}

// Seek moves to the given index, clamped to [0, len-1], and pauses.
func (s *Session) Seek(i int) {
	if len(s.Tokens) == 0 {
		s.Pause()
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(s.Tokens)-1 {
		i = len(s.Tokens) - 1
	}
	s.Current = i
	s.Pause()
}

// SeekFraction maps a progress-bar click fraction to a token index:
// min(len-1, floor(len × pct)).
func (s *Session) SeekFraction(pct float64) {
	if len(s.Tokens) == 0 {
		return
	}
	if pct < 0 {
		pct = 0
	}
	s.Seek(int(float64(len(s.Tokens)) * pct))
}

// Reset pauses and rewinds to the first word.
func (s *Session) Reset() {
	s.Pause()
	s.Current = 0
}

// Content returns the tokens rejoined with single spaces, the canonical form
// stored in the library.
func (s *Session) Content() string {
	return strings.Join(s.Tokens, " ")
}

func (s *Session) nextGen() int {
	s.tickGen++
	return s.tickGen
}
