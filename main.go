//go:build !gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmdfault/flit/internal/bookmark"
	"github.com/cmdfault/flit/internal/extract"
	"github.com/cmdfault/flit/internal/library"
	"github.com/cmdfault/flit/internal/preview"
	"github.com/cmdfault/flit/internal/progress"
	"github.com/cmdfault/flit/internal/reader"
	"github.com/cmdfault/flit/internal/theme"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type tab int

const (
	tabLoader tab = iota
	tabReader
	tabLibrary
	tabCount
)

type tickMsg struct {
	gen int
}

type keyMap struct {
	Play       key.Binding
	Reset      key.Binding
	Mark       key.Binding
	Unmark     key.Binding
	SpeedUp    key.Binding
	SpeedDown  key.Binding
	Back       key.Binding
	Forward    key.Binding
	PrevLine   key.Binding
	NextLine   key.Binding
	Start      key.Binding
	End        key.Binding
	Save       key.Binding
	Theme      key.Binding
	ThemeReset key.Binding
	Tab        key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Play:       key.NewBinding(key.WithKeys(" ")),
	Reset:      key.NewBinding(key.WithKeys("r")),
	Mark:       key.NewBinding(key.WithKeys("b")),
	Unmark:     key.NewBinding(key.WithKeys("x")),
	SpeedUp:    key.NewBinding(key.WithKeys("up")),
	SpeedDown:  key.NewBinding(key.WithKeys("down")),
	Back:       key.NewBinding(key.WithKeys("left")),
	Forward:    key.NewBinding(key.WithKeys("right")),
	PrevLine:   key.NewBinding(key.WithKeys("pgup")),
	NextLine:   key.NewBinding(key.WithKeys("pgdown")),
	Start:      key.NewBinding(key.WithKeys("home")),
	End:        key.NewBinding(key.WithKeys("end")),
	Save:       key.NewBinding(key.WithKeys("s")),
	Theme:      key.NewBinding(key.WithKeys("t")),
	ThemeReset: key.NewBinding(key.WithKeys("ctrl+t")),
	Tab:        key.NewBinding(key.WithKeys("tab")),
	Quit:       key.NewBinding(key.WithKeys("q", "Q", "ctrl+c")),
}

type model struct {
	session *reader.Session
	marks   *bookmark.Set
	prevCtl *preview.Controller
	screen  *termRenderer
	lib     *library.Store
	themes  *theme.Store
	palette theme.Theme
	styles  theme.Styles

	tab        tab
	input      textarea.Model
	titleIn    textinput.Model
	coverIn    textinput.Model
	pathIn     textinput.Model
	books      list.Model
	saving     bool
	browsing   bool
	notice     string
	quitting   bool
	pendingWPM int
	width      int
	height     int
}

type bookItem struct {
	info library.BookInfo
}

func (b bookItem) Title() string { return b.info.Title }
func (b bookItem) Description() string {
	if b.info.Cover != "" {
		return b.info.Cover
	}
	return "no cover"
}
func (b bookItem) FilterValue() string { return b.info.Title }

func newModel(lib *library.Store, themes *theme.Store, wpm int) model {
	ta := textarea.New()
	ta.Placeholder = "Paste text here..."
	ta.CharLimit = 0
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Book title"

	ci := textinput.New()
	ci.Placeholder = "Cover image URL (optional)"

	pi := textinput.New()
	pi.Placeholder = "Path to .txt / .md / .epub file"

	bl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	bl.Title = "library"
	bl.SetShowStatusBar(false)
	bl.SetFilteringEnabled(false)

	palette := themes.Load()
	return model{
		marks:      bookmark.NewSet(),
		lib:        lib,
		themes:     themes,
		palette:    palette,
		styles:     palette.Styles(),
		input:      ta,
		titleIn:    ti,
		coverIn:    ci,
		pathIn:     pi,
		books:      bl,
		pendingWPM: wpm,
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func tick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.input.SetHeight(msg.Height - 8)
		m.books.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (key.Matches(msg, keys.Quit) && !m.typing()) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Tab) && !m.saving && !m.browsing {
			return m.switchTab((m.tab + 1) % tabCount)
		}
		switch m.tab {
		case tabLoader:
			return m.updateLoader(msg)
		case tabReader:
			return m.updateReader(msg)
		case tabLibrary:
			return m.updateLibrary(msg)
		}
	}
	return m, nil
}

// typing reports whether a text field currently owns the keyboard, so plain
// letter keys must not be treated as commands.
func (m model) typing() bool {
	return m.tab == tabLoader || m.saving
}

func (m model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	res, next := m.session.Tick(msg.gen)
	switch res {
	case reader.TickStale:
		return m, nil
	case reader.TickFinished:
		m.notice = "Reading complete!"
		return m, nil
	}
	m.prevCtl.Render(m.session.Current, false)
	return m, tick(m.session.Delay(), next)
}

func (m model) switchTab(t tab) (tea.Model, tea.Cmd) {
	if m.session != nil && m.session.Playing() {
		m.session.Pause()
	}
	m.tab = t
	m.saving = false
	m.browsing = false
	if t == tabLibrary {
		m.refreshBooks()
	}
	if t == tabLoader {
		m.input.Focus()
		return m, textarea.Blink
	}
	m.input.Blur()
	return m, nil
}

func (m *model) refreshBooks() {
	infos := m.lib.List()
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = bookItem{info: info}
	}
	m.books.SetItems(items)
}

func (m model) updateLoader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browsing {
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.pathIn.Value())
			m.browsing = false
			if path == "" {
				return m, nil
			}
			text, err := extract.Text(path)
			if err != nil {
				m.notice = fmt.Sprintf("Could not read %s: %v", path, err)
				return m, nil
			}
			m.input.SetValue(text)
			m.notice = "File loaded. ctrl+s to start reading."
			return m, nil
		case "esc":
			m.browsing = false
			return m, nil
		}
		var cmd tea.Cmd
		m.pathIn, cmd = m.pathIn.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+s":
		return m.prepare()
	case "ctrl+o":
		m.browsing = true
		m.pathIn.SetValue("")
		m.pathIn.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// prepare builds a fresh session from the loader text. Bookmarks and the
// reading position do not survive a new text load.
func (m model) prepare() (tea.Model, tea.Cmd) {
	wpm := m.pendingWPM
	if m.session != nil {
		m.session.Pause()
		wpm = m.session.WPM
	}
	session, err := reader.NewSession(m.input.Value(), wpm)
	if err != nil {
		if errors.Is(err, reader.ErrNoText) {
			m.notice = "Paste some text first!"
		} else {
			m.notice = err.Error()
		}
		return m, nil
	}

	m.session = session
	m.marks = bookmark.NewSet()
	m.screen = newTermRenderer(m.styles)
	m.prevCtl = preview.NewController(session.Tokens, m.marks.Contains, m.screen)
	m.prevCtl.Render(0, true)
	m.notice = ""
	return m.switchTab(tabReader)
}

func (m model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}

	if m.saving {
		switch msg.String() {
		case "enter":
			// Title first, cover second, then persist.
			if m.titleIn.Focused() {
				m.titleIn.Blur()
				m.coverIn.Focus()
				return m, textinput.Blink
			}
			title := strings.TrimSpace(m.titleIn.Value())
			cover := strings.TrimSpace(m.coverIn.Value())
			if _, err := m.lib.Save(title, cover, m.session.Content()); err != nil {
				m.notice = fmt.Sprintf("Save failed: %v", err)
			} else {
				m.notice = "Saved to library!"
			}
			m.saving = false
			return m, nil
		case "esc":
			m.saving = false
			m.notice = "Save canceled"
			return m, nil
		}
		var cmd tea.Cmd
		if m.titleIn.Focused() {
			m.titleIn, cmd = m.titleIn.Update(msg)
		} else {
			m.coverIn, cmd = m.coverIn.Update(msg)
		}
		return m, cmd
	}

	// alt+1..9 activates bookmark N.
	if s := msg.String(); len(s) == 5 && strings.HasPrefix(s, "alt+") && s[4] >= '1' && s[4] <= '9' {
		if idx, ok := m.marks.At(int(s[4] - '1')); ok {
			m.seekTo(idx)
		}
		return m, nil
	}

	// 0..9 seeks to that tenth of the text, the progress-bar click analog.
	if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		m.session.SeekFraction(float64(s[0]-'0') / 10)
		m.prevCtl.Render(m.session.Current, true)
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Play):
		gen, playing := m.session.TogglePlayPause()
		if playing {
			m.notice = ""
			return m, tick(0, gen)
		}
		return m, nil

	case key.Matches(msg, keys.Reset):
		m.session.Reset()
		m.prevCtl.Render(0, true)
		return m, nil

	case key.Matches(msg, keys.SpeedUp):
		gen, resched := m.session.SetWPM(m.session.WPM + 10)
		if resched {
			return m, tick(0, gen)
		}
		return m, nil

	case key.Matches(msg, keys.SpeedDown):
		gen, resched := m.session.SetWPM(m.session.WPM - 10)
		if resched {
			return m, tick(0, gen)
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		m.seekTo(m.session.Current - 1)
		return m, nil

	case key.Matches(msg, keys.Forward):
		m.seekTo(m.session.Current + 1)
		return m, nil

	case key.Matches(msg, keys.PrevLine):
		m.seekTo(m.session.Current - preview.WordsPerLine)
		return m, nil

	case key.Matches(msg, keys.NextLine):
		m.seekTo(m.session.Current + preview.WordsPerLine)
		return m, nil

	case key.Matches(msg, keys.Start):
		m.seekTo(0)
		return m, nil

	case key.Matches(msg, keys.End):
		m.seekTo(m.session.Len() - 1)
		return m, nil

	case key.Matches(msg, keys.Mark):
		if m.session.Len() == 0 {
			return m, nil
		}
		if m.marks.Add(m.session.Current) {
			m.prevCtl.Render(m.session.Current, true)
			m.notice = fmt.Sprintf("Bookmark %d added", m.marks.Len())
		}
		return m, nil

	case key.Matches(msg, keys.Unmark):
		if m.marks.Remove(m.session.Current) {
			m.prevCtl.Render(m.session.Current, true)
			m.notice = "Bookmark removed"
		}
		return m, nil

	case key.Matches(msg, keys.Save):
		m.saving = true
		m.titleIn.SetValue(m.session.Title)
		m.titleIn.Focus()
		m.coverIn.SetValue("")
		m.coverIn.Blur()
		return m, textinput.Blink

	case key.Matches(msg, keys.Theme):
		m.applyTheme(theme.Next(m.palette))
		if err := m.themes.Save(m.palette); err != nil {
			m.notice = fmt.Sprintf("Theme save failed: %v", err)
		} else {
			m.notice = "Theme updated"
		}
		return m, nil

	case key.Matches(msg, keys.ThemeReset):
		m.themes.Reset()
		m.applyTheme(theme.Default())
		m.notice = "Theme reset"
		return m, nil
	}
	return m, nil
}

// applyTheme swaps the palette and re-renders the window with the new styles.
func (m *model) applyTheme(t theme.Theme) {
	m.palette = t
	m.styles = t.Styles()
	if m.session != nil {
		m.screen = newTermRenderer(m.styles)
		m.prevCtl = preview.NewController(m.session.Tokens, m.marks.Contains, m.screen)
		m.prevCtl.Render(m.session.Current, true)
	}
}

// seekTo jumps to a word, pausing playback and forcing a window rebuild.
func (m *model) seekTo(idx int) {
	m.session.Seek(idx)
	m.prevCtl.Render(m.session.Current, true)
}

func (m model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		item, ok := m.books.SelectedItem().(bookItem)
		if !ok {
			return m, nil
		}
		content, err := m.lib.Load(item.info.ID)
		if err != nil {
			return m, nil
		}
		m.input.SetValue(content)
		m.notice = "Book loaded! ctrl+s to start reading."
		return m.switchTab(tabLoader)

	case "d":
		item, ok := m.books.SelectedItem().(bookItem)
		if !ok {
			return m, nil
		}
		if err := m.lib.Delete(item.info.ID); err == nil {
			m.refreshBooks()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		if m.session != nil && m.session.Finished() {
			return m.styles.Complete.Render("\n  Reading complete!\n")
		}
		return ""
	}

	switch m.tab {
	case tabLoader:
		return m.loaderView()
	case tabLibrary:
		return m.libraryView()
	default:
		return m.readerView()
	}
}

func (m model) loaderView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("flit · load text"))
	sb.WriteString("\n\n")
	if m.browsing {
		sb.WriteString("Open file: ")
		sb.WriteString(m.pathIn.View())
		sb.WriteString("\n")
		sb.WriteString(m.styles.Controls.Render("ENTER: load  ESC: cancel  (" + strings.Join(extract.Supported(), "; ") + ")"))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.notice != "" {
		sb.WriteString(m.styles.Notice.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Controls.Render("ctrl+s: start reading  ctrl+o: open file  TAB: switch view  ctrl+c: quit"))
	return sb.String()
}

func (m model) libraryView() string {
	var sb strings.Builder
	sb.WriteString(m.books.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Controls.Render("ENTER: load book  D: delete  TAB: switch view  Q: quit"))
	return sb.String()
}

func (m model) readerView() string {
	if m.session == nil {
		return m.styles.Notice.Render("No text loaded.") + "\n" +
			m.styles.Controls.Render("TAB: switch to the loader and paste some text")
	}

	var sb strings.Builder

	if m.session.Title != "" {
		sb.WriteString(m.styles.Title.Render(m.session.Title))
		sb.WriteString("\n")
	}

	sb.WriteString(anchorORP(m.formatFlash(m.screen.Flash()), m.screen.Flash(), m.width))
	sb.WriteString("\n\n")

	sb.WriteString(m.screen.View())
	sb.WriteString("\n\n")

	barWidth := m.width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	sb.WriteString("  ")
	sb.WriteString(m.styles.Bar.Render(m.progressBar(barWidth)))
	sb.WriteString("\n")

	pause := ""
	if !m.session.Playing() {
		pause = " [PAUSED]"
	}
	sb.WriteString(m.styles.Status.Render(
		progress.Summary(m.session.Current, m.session.Len(), m.session.WPM) + pause))
	sb.WriteString("\n")

	if m.marks.Len() > 0 {
		parts := make([]string, 0, m.marks.Len())
		for i, idx := range m.marks.All() {
			parts = append(parts, fmt.Sprintf("%d:%d", i+1, idx))
		}
		sb.WriteString(m.styles.Bookmark.Render("bookmarks " + strings.Join(parts, " ")))
		sb.WriteString("\n")
	}

	if m.saving {
		sb.WriteString("Save as: ")
		sb.WriteString(m.titleIn.View())
		sb.WriteString("\n")
		sb.WriteString("Cover URL: ")
		sb.WriteString(m.coverIn.View())
		sb.WriteString("\n")
	}
	if m.notice != "" {
		sb.WriteString(m.styles.Notice.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Controls.Render(
		"SPACE: play/pause  ↑/↓: ±10 wpm  ←/→: word  0-9: seek  B: bookmark  X: unmark  alt+N: go to bookmark  S: save  T: theme  R: reset  TAB: view  Q: quit"))
	return sb.String()
}

// progressBar draws the timeline with bookmark dots at their marker
// positions.
func (m model) progressBar(width int) string {
	total := m.session.Len()
	filled := int(progress.Fraction(m.session.Current, total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := []rune(strings.Repeat("█", filled) + strings.Repeat("─", width-filled))
	for _, idx := range m.marks.All() {
		pos := int(bookmark.MarkerPercent(idx, total) / 100 * float64(width-1))
		if pos >= 0 && pos < width {
			bar[pos] = '●'
		}
	}
	return string(bar)
}

// formatFlash styles the flash word with its optimal recognition point
// letter accented.
func (m model) formatFlash(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(word)
	orp := reader.ORPIndex(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	before := string(runes[:orp])
	focus := string(runes[orp])
	after := ""
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}
	return m.styles.Flash.Render(before) +
		m.styles.ORP.Render(focus) +
		m.styles.Flash.Render(after)
}

// anchorORP pads the styled flash word so its recognition point sits at the
// horizontal center.
func anchorORP(styled, word string, width int) string {
	pad := width/2 - reader.ORPIndex(word)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + styled
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute (default: 300)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Flit - Terminal Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  flit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  flit file.txt             Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  flit -w 500 book.epub     Read from an EPUB at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | flit       Read from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Pause/play\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Adjust speed by 10 WPM\n")
		fmt.Fprintf(os.Stderr, "  ←/→      Step one word\n")
		fmt.Fprintf(os.Stderr, "  0-9      Seek to that tenth of the text\n")
		fmt.Fprintf(os.Stderr, "  B        Add bookmark\n")
		fmt.Fprintf(os.Stderr, "  S        Save to library\n")
		fmt.Fprintf(os.Stderr, "  T        Cycle color theme\n")
		fmt.Fprintf(os.Stderr, "  TAB      Cycle loader / reader / library\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("flit %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	var text string
	if flag.NArg() > 0 {
		filename := flag.Arg(0)
		extracted, err := extract.Text(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read file '%s': %v\n", filename, err)
			os.Exit(1)
		}
		text = extracted
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
				os.Exit(1)
			}
			text = string(data)
		}
	}

	lib, err := library.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	themes, err := theme.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening theme store: %v\n", err)
		os.Exit(1)
	}

	m := newModel(lib, themes, *wpm)
	if strings.TrimSpace(text) != "" {
		m.input.SetValue(text)
		if prepared, _ := m.prepare(); prepared != nil {
			m = prepared.(model)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
