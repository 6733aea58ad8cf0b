// Package preview maintains the sliding multi-line window shown around the
// current word, deciding between full window rebuilds and cheap highlight
// moves.
package preview

// WordsPerLine is the fixed number of tokens per preview line.
const WordsPerLine = 10

// linesAbove is how many lines of already-read context stay visible.
const linesAbove = 3

// Word is one token in the visible window.
type Word struct {
	Index      int
	Text       string
	Highlight  bool
	Bookmarked bool
}

// Line is a fixed chunk of WordsPerLine consecutive tokens. The Lookahead
// line is the one just past the current line, styled for its slide-in
// transition.
type Line struct {
	Index     int
	Words     []Word
	Lookahead bool
}

// Renderer receives display updates. It is the only output surface of the
// engine, so playback logic stays testable without any real UI.
type Renderer interface {
	// RebuildWindow replaces the entire visible window.
	RebuildWindow(lines []Line)
	// MoveHighlight shifts the highlight marker from one word index to
	// another within the already-rendered window.
	MoveHighlight(from, to int)
	// SetFlashWord updates the single-word flash display.
	SetFlashWord(word string)
}

// Controller decides how to refresh the preview for a position change.
// Rebuilding is reserved for line changes and forced refreshes; within a
// line only the highlight moves, which is the common case during playback.
type Controller struct {
	tokens []string
	marked func(int) bool
	r      Renderer

	lastLine int
	lastPos  int
}

// NewController builds a controller over the token sequence. marked reports
// whether a word index is bookmarked; it may be nil.
func NewController(tokens []string, marked func(int) bool, r Renderer) *Controller {
	return &Controller{tokens: tokens, marked: marked, r: r, lastLine: -1, lastPos: -1}
}

// Render refreshes the display for the given position. Rendering the same
// position twice without force is idempotent.
func (c *Controller) Render(current int, force bool) {
	word := ""
	if current >= 0 && current < len(c.tokens) {
		word = c.tokens[current]
	}
	c.r.SetFlashWord(word)

	lineIdx := current / WordsPerLine
	switch {
	case force || lineIdx != c.lastLine:
		c.r.RebuildWindow(c.Window(current))
		c.lastLine = lineIdx
	case current != c.lastPos:
		c.r.MoveHighlight(c.lastPos, current)
	}
	c.lastPos = current
}

// Invalidate forgets the cached line so the next Render rebuilds the window.
func (c *Controller) Invalidate() {
	c.lastLine = -1
	c.lastPos = -1
}

// Window computes the visible lines for a position: up to three lines above
// the current line, the current line, and one lookahead line, clipped to the
// token range.
func (c *Controller) Window(current int) []Line {
	lineIdx := current / WordsPerLine
	start := lineIdx - linesAbove
	if start < 0 {
		start = 0
	}
	end := lineIdx + 1

	var lines []Line
	for li := start; li <= end; li++ {
		lo := li * WordsPerLine
		if lo >= len(c.tokens) {
			continue
		}
		hi := lo + WordsPerLine
		if hi > len(c.tokens) {
			hi = len(c.tokens)
		}
		words := make([]Word, 0, hi-lo)
		for i := lo; i < hi; i++ {
			words = append(words, Word{
				Index:      i,
				Text:       c.tokens[i],
				Highlight:  li == lineIdx && i == current,
				Bookmarked: c.marked != nil && c.marked(i),
			})
		}
		lines = append(lines, Line{Index: li, Words: words, Lookahead: li == end})
	}
	return lines
}
