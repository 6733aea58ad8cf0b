//go:build !gui

package main

import (
	"strings"

	"github.com/cmdfault/flit/internal/preview"
	"github.com/cmdfault/flit/internal/theme"
)

// termRenderer turns preview updates into styled terminal lines. A window
// rebuild re-renders every visible line; a highlight move re-renders only the
// lines holding the old and new word, which is the common case during
// playback.
type termRenderer struct {
	styles theme.Styles
	lines  []preview.Line
	out    []string
	flash  string
}

func newTermRenderer(styles theme.Styles) *termRenderer {
	return &termRenderer{styles: styles}
}

func (r *termRenderer) SetFlashWord(word string) {
	r.flash = word
}

func (r *termRenderer) RebuildWindow(lines []preview.Line) {
	r.lines = lines
	r.out = make([]string, len(lines))
	for i, l := range lines {
		r.out[i] = r.renderLine(l)
	}
}

func (r *termRenderer) MoveHighlight(from, to int) {
	for i := range r.lines {
		changed := false
		for j := range r.lines[i].Words {
			w := &r.lines[i].Words[j]
			if w.Index == from && w.Highlight {
				w.Highlight = false
				changed = true
			}
			if w.Index == to && !w.Highlight {
				w.Highlight = true
				changed = true
			}
		}
		if changed {
			r.out[i] = r.renderLine(r.lines[i])
		}
	}
}

// Flash returns the current flash word, unstyled.
func (r *termRenderer) Flash() string {
	return r.flash
}

// View joins the rendered window lines.
func (r *termRenderer) View() string {
	return strings.Join(r.out, "\n")
}

func (r *termRenderer) renderLine(l preview.Line) string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		switch {
		case w.Highlight:
			parts = append(parts, r.styles.Highlight.Render(w.Text))
		case w.Bookmarked:
			parts = append(parts, r.styles.Bookmark.Render(w.Text))
		case l.Lookahead:
			parts = append(parts, r.styles.Lookahead.Render(w.Text))
		default:
			parts = append(parts, w.Text)
		}
	}
	return strings.Join(parts, " ")
}
