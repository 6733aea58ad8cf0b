//go:build !gui

package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmdfault/flit/internal/bookmark"
	"github.com/cmdfault/flit/internal/library"
	"github.com/cmdfault/flit/internal/reader"
	"github.com/cmdfault/flit/internal/theme"
)

const sampleText = "one two three four five six seven eight nine ten " +
	"eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty"

func newTestModel(t *testing.T, text string, wpm int) model {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	lib, err := library.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	themes, err := theme.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	m := newModel(lib, themes, wpm)
	if text != "" {
		m.input.SetValue(text)
		prepared, _ := m.prepare()
		m = prepared.(model)
	}
	return m
}

func press(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(model), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestPrepareRequiresText(t *testing.T) {
	m := newTestModel(t, "", 300)

	prepared, _ := m.prepare()
	m = prepared.(model)

	if m.session != nil {
		t.Error("prepare with empty input should not build a session")
	}
	if m.notice != "Paste some text first!" {
		t.Errorf("notice = %q", m.notice)
	}
	if m.tab != tabLoader {
		t.Error("should stay on the loader")
	}
}

func TestPrepareStartsReader(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	if m.tab != tabReader {
		t.Errorf("tab = %v, want reader", m.tab)
	}
	if m.session == nil {
		t.Fatal("no session")
	}
	if m.session.Len() != 20 {
		t.Errorf("Len = %v, want 20", m.session.Len())
	}
	if m.session.Playing() {
		t.Error("new session should start paused")
	}
	if got := m.screen.Flash(); got != "one" {
		t.Errorf("flash = %q, want one", got)
	}
}

func TestPlayPauseAndTick(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.session.Playing() {
		t.Fatal("space should start playback")
	}
	if cmd == nil {
		t.Fatal("playback should schedule a tick")
	}

	// The first tick fires at zero delay and advances one word.
	m, next := press(t, m, cmd())
	if m.session.Current != 1 {
		t.Errorf("Current = %v, want 1", m.session.Current)
	}
	if next == nil {
		t.Fatal("a live tick should schedule its successor")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.session.Playing() {
		t.Fatal("space should pause playback")
	}

	// The tick scheduled before the pause is stale and must not advance.
	m, after := press(t, m, next())
	if m.session.Current != 1 {
		t.Errorf("stale tick moved position to %v", m.session.Current)
	}
	if after != nil {
		t.Error("stale tick should not reschedule")
	}
}

func TestSpeedKeys(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.session.WPM != 310 {
		t.Errorf("WPM after up = %v, want 310", m.session.WPM)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.session.WPM != 290 {
		t.Errorf("WPM after down down = %v, want 290", m.session.WPM)
	}
}

func TestSpeedFloor(t *testing.T) {
	m := newTestModel(t, sampleText, 15)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.session.WPM != 10 {
		t.Errorf("WPM = %v, want floor 10", m.session.WPM)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.session.WPM != 10 {
		t.Errorf("WPM = %v, want floor 10", m.session.WPM)
	}
}

func TestDigitSeeks(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	tests := []struct {
		key  rune
		want int
	}{
		{'0', 0},
		{'5', 10},
		{'9', 18},
	}
	for _, tt := range tests {
		m, _ = press(t, m, runeKey(tt.key))
		if m.session.Current != tt.want {
			t.Errorf("digit %c: Current = %v, want %v", tt.key, m.session.Current, tt.want)
		}
		if m.session.Playing() {
			t.Errorf("digit %c: seek should pause", tt.key)
		}
	}
}

func TestStepKeysClamp(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.session.Current != 0 {
		t.Errorf("left at start: Current = %v, want 0", m.session.Current)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.session.Current != 1 {
		t.Errorf("right: Current = %v, want 1", m.session.Current)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.session.Current != 19 {
		t.Errorf("end: Current = %v, want 19", m.session.Current)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.session.Current != 19 {
		t.Errorf("right at end: Current = %v, want 19", m.session.Current)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	if m.session.Current != 0 {
		t.Errorf("home: Current = %v, want 0", m.session.Current)
	}
}

func TestBookmarkKeys(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('5'))
	m, _ = press(t, m, runeKey('b'))
	if !m.marks.Contains(10) {
		t.Fatal("b should bookmark the current word")
	}

	m, _ = press(t, m, runeKey('b'))
	if m.marks.Len() != 1 {
		t.Errorf("duplicate bookmark: Len = %v, want 1", m.marks.Len())
	}

	m, _ = press(t, m, runeKey('x'))
	if m.marks.Contains(10) {
		t.Error("x should remove the bookmark")
	}
}

func TestBookmarkJump(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('3'))
	m, _ = press(t, m, runeKey('b'))
	m, _ = press(t, m, runeKey('7'))
	m, _ = press(t, m, runeKey('b'))

	// Bookmarks are numbered in word order: alt+1 is the earliest.
	m, _ = press(t, m, altKey('1'))
	if m.session.Current != 6 {
		t.Errorf("alt+1: Current = %v, want 6", m.session.Current)
	}
	m, _ = press(t, m, altKey('2'))
	if m.session.Current != 14 {
		t.Errorf("alt+2: Current = %v, want 14", m.session.Current)
	}

	// An unset slot is ignored.
	m, _ = press(t, m, altKey('9'))
	if m.session.Current != 14 {
		t.Errorf("alt+9: Current = %v, want 14", m.session.Current)
	}
}

func TestResetKey(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('8'))
	m, _ = press(t, m, runeKey('r'))
	if m.session.Current != 0 {
		t.Errorf("reset: Current = %v, want 0", m.session.Current)
	}
	if m.session.Playing() {
		t.Error("reset should leave playback paused")
	}
}

func TestSaveToLibrary(t *testing.T) {
	m := newTestModel(t, "My Title\nbody words here", 300)

	m, _ = press(t, m, runeKey('s'))
	if !m.saving {
		t.Fatal("s should open the save prompt")
	}
	if got := m.titleIn.Value(); got != "My Title" {
		t.Errorf("prompt prefilled with %q, want My Title", got)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.saving || !m.coverIn.Focused() {
		t.Fatal("enter on the title should move to the cover field")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cover.png")})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.saving {
		t.Error("enter on the cover should close the prompt")
	}

	books := m.lib.List()
	if len(books) != 1 {
		t.Fatalf("library has %v entries, want 1", len(books))
	}
	if books[0].Title != "My Title" {
		t.Errorf("saved title = %q", books[0].Title)
	}
	if books[0].Cover != "cover.png" {
		t.Errorf("saved cover = %q, want cover.png", books[0].Cover)
	}

	content, err := m.lib.Load(books[0].ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if content != "My Title body words here" {
		t.Errorf("saved content = %q", content)
	}
}

func TestSaveEscCancels(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('s'))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.saving {
		t.Error("esc should close the prompt")
	}
	if m.lib.Len() != 0 {
		t.Errorf("library has %v entries, want 0", m.lib.Len())
	}
}

func TestThemeKeysCycleAndPersist(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('t'))
	if m.palette == theme.Default() {
		t.Fatal("t should switch to the next preset")
	}

	store, err := theme.NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if got := store.Load(); got != m.palette {
		t.Errorf("persisted theme = %+v, want %+v", got, m.palette)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.palette != theme.Default() {
		t.Errorf("ctrl+t should reset the theme, got %+v", m.palette)
	}
	if got := store.Load(); got != theme.Default() {
		t.Errorf("persisted theme after reset = %+v, want defaults", got)
	}
}

func TestTabCyclesViews(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	want := []tab{tabLibrary, tabLoader, tabReader}
	for _, w := range want {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.tab != w {
			t.Fatalf("tab = %v, want %v", m.tab, w)
		}
	}
}

func TestTabSwitchPausesPlayback(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.session.Playing() {
		t.Error("leaving the reader should pause playback")
	}
}

func TestLoadFromLibrary(t *testing.T) {
	m := newTestModel(t, sampleText, 300)
	m.lib.Save("Stored", "", "stored book words")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}) // reader → library
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.tab != tabLoader {
		t.Errorf("tab = %v, want loader", m.tab)
	}
	if got := m.input.Value(); got != "stored book words" {
		t.Errorf("loader text = %q", got)
	}
}

func TestDeleteFromLibrary(t *testing.T) {
	m := newTestModel(t, sampleText, 300)
	m.lib.Save("Stored", "", "stored book words")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(t, m, runeKey('d'))

	if m.lib.Len() != 0 {
		t.Errorf("library has %v entries after delete, want 0", m.lib.Len())
	}
}

func TestReaderViewShowsPaused(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	if view := m.View(); !strings.Contains(view, "[PAUSED]") {
		t.Error("paused session should show [PAUSED]")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if view := m.View(); strings.Contains(view, "[PAUSED]") {
		t.Error("playing session should not show [PAUSED]")
	}
}

func TestProgressBarMarkers(t *testing.T) {
	m := newTestModel(t, sampleText, 300)

	m, _ = press(t, m, runeKey('5'))
	bar := []rune(m.progressBar(20))
	if len(bar) != 20 {
		t.Fatalf("bar width = %v, want 20", len(bar))
	}
	if bar[0] != '█' || bar[19] != '─' {
		t.Errorf("bar = %q", string(bar))
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	m, _ = press(t, m, runeKey('b'))
	bar = []rune(m.progressBar(20))
	if bar[19] != '●' {
		t.Errorf("last-word bookmark should dot the bar end, got %q", string(bar))
	}
}

func TestFinishAutoPauses(t *testing.T) {
	m := newTestModel(t, "alpha beta", 300)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i < 3 && cmd != nil; i++ {
		m, cmd = press(t, m, cmd())
	}

	if m.session.Playing() {
		t.Error("reaching the end should pause")
	}
	if m.notice != "Reading complete!" {
		t.Errorf("notice = %q", m.notice)
	}
	if !m.session.Finished() {
		t.Error("session should be finished")
	}
}

func BenchmarkProgressBar(b *testing.B) {
	s, _ := reader.NewSession(strings.TrimSpace(strings.Repeat("word ", 500)), 300)
	s.Current = 250
	m := model{session: s, marks: bookmark.NewSet()}
	m.marks.Add(100)
	m.marks.Add(400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.progressBar(80)
	}
}

func TestAnchorORP(t *testing.T) {
	got := anchorORP("reading", "reading", 20)
	if want := strings.Repeat(" ", 8) + "reading"; got != want {
		t.Errorf("anchorORP = %q, want %q", got, want)
	}
	if got := anchorORP("a", "a", 0); got != "a" {
		t.Errorf("anchorORP at zero width = %q, want no padding", got)
	}
}
