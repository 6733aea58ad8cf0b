//go:build gui

package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/cmdfault/flit/internal/bookmark"
	"github.com/cmdfault/flit/internal/extract"
	"github.com/cmdfault/flit/internal/library"
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

// gmodel holds the GUI state. The session lives inside the ticker, which owns
// its lock; everything else is touched only on the fyne main thread.
type gmodel struct {
	ticker *reader.Ticker
	marks  *bookmark.Set

	lib        *library.Store
	themes     *theme.Store
	palette    theme.Theme
	fontSize   float32
	libVisible bool
}

// parseHexColor reads a #rrggbb palette value, falling back to white.
func parseHexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.White
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.White
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func createWordDisplay(word string, palette theme.Theme, fontSize float32, windowWidth float32) *fyne.Container {
	runes := []rune(word)
	orp := reader.ORPIndex(word)

	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	if orp < 0 {
		orp = 0
	}

	before, focus, after := "", "", ""
	if len(runes) > 0 {
		before = string(runes[:orp])
		focus = string(runes[orp])
		if orp+1 < len(runes) {
			after = string(runes[orp+1:])
		}
	}

	textColor := parseHexColor(palette.Text)
	accent := parseHexColor(palette.Accent)

	beforeText := canvas.NewText(before, textColor)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(focus, accent)
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(after, textColor)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	// Anchor the recognition point at the horizontal center.
	centerX := windowWidth / 2
	beforeX := centerX - beforeSize.Width
	focusX := centerX
	afterX := centerX + focusSize.Width

	if beforeX < 0 {
		beforeX = 0
	}

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(focusX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var maxH float32
	for _, o := range objects {
		size := o.MinSize()
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(0, maxH)
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	var maxH float32
	for _, o := range objects {
		objSize := o.MinSize()
		if objSize.Height > maxH {
			maxH = objSize.Height
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}

func main() {
	wpm := flag.Int("w", 300, "Words per minute")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Gflit - GUI Speed Reading Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  gflit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gflit file.txt            Read from file at 300 WPM\n")
		fmt.Fprintf(os.Stderr, "  gflit -w 500 book.epub    Read from an EPUB at 500 WPM\n")
		fmt.Fprintf(os.Stderr, "  cat file.txt | gflit      Read from stdin\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("gflit %s (commit: %s, built: %s)\n", version, commit, date)
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
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Error: No input provided. Provide a file or pipe text to stdin.")
			fmt.Fprintln(os.Stderr, "Try: gflit -h")
			os.Exit(1)
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}

	session, err := reader.NewSession(text, *wpm)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: No text to read.")
		os.Exit(1)
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

	m := &gmodel{
		marks:    bookmark.NewSet(),
		lib:      lib,
		themes:   themes,
		palette:  themes.Load(),
		fontSize: 72,
	}

	a := app.New()
	w := a.NewWindow("gflit - Speed Reader")

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("SPACE: pause  ↑/↓: speed  ←/→: word  B: bookmark  S: save  L: library  T: theme  R: restart  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	wordContainer := container.NewStack()

	updateDisplay := func() {
		snap := m.ticker.Snapshot()

		canvasWidth := w.Canvas().Size().Width
		if canvasWidth <= 0 {
			canvasWidth = 800
		}

		wordContainer.Objects = []fyne.CanvasObject{
			createWordDisplay(snap.Word, m.palette, m.fontSize, canvasWidth),
		}
		wordContainer.Refresh()

		pauseText := ""
		if !snap.Playing {
			pauseText = " [PAUSED]"
		}
		markText := ""
		if n := m.marks.Len(); n > 0 {
			markText = fmt.Sprintf(" | %d bookmarks", n)
		}
		statusLabel.SetText(progress.Summary(snap.Current, snap.Total, snap.WPM) + markText + pauseText)
	}

	m.ticker = reader.NewTicker(session, func(reader.TickResult) {
		fyne.Do(updateDisplay)
	})

	// Library panel, toggled with L.
	var libPanel *container.Split
	books := lib.List()
	libList := widget.NewList(
		func() int { return len(books) },
		func() fyne.CanvasObject { return widget.NewLabel("Title") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(books[id].Title)
		},
	)
	libList.OnSelected = func(id widget.ListItemID) {
		if id >= len(books) {
			return
		}
		content, err := lib.Load(books[id].ID)
		if err != nil {
			return
		}
		next, err := reader.NewSession(content, *wpm)
		if err != nil {
			return
		}
		m.ticker.Swap(next)
		m.marks = bookmark.NewSet()
		m.libVisible = false
		libPanel.Leading.Hide()
		libPanel.Refresh()
		updateDisplay()
	}

	readingContent := container.NewBorder(
		statusLabel,
		controlsLabel,
		nil, nil,
		wordContainer,
	)

	libContainer := container.NewBorder(
		widget.NewLabel("Library"),
		widget.NewLabel("Click to load • L to close"),
		nil, nil,
		libList,
	)
	libPanel = container.NewHSplit(libContainer, readingContent)
	libPanel.Offset = 0.33
	libContainer.Hide()

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			m.ticker.Toggle()
			updateDisplay()

		case fyne.KeyUp:
			m.ticker.AdjustWPM(10)
			updateDisplay()

		case fyne.KeyDown:
			m.ticker.AdjustWPM(-10)
			updateDisplay()

		case fyne.KeyLeft:
			m.ticker.Seek(m.ticker.Snapshot().Current - 1)
			updateDisplay()

		case fyne.KeyRight:
			m.ticker.Seek(m.ticker.Snapshot().Current + 1)
			updateDisplay()

		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())

		case fyne.KeyQ:
			m.ticker.Stop()
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'l', 'L':
			m.libVisible = !m.libVisible
			if m.libVisible {
				m.ticker.Pause()
				books = lib.List()
				libList.Refresh()
				libPanel.Leading.Show()
			} else {
				libPanel.Leading.Hide()
			}
			libPanel.Refresh()
			updateDisplay()

		case 'r', 'R':
			m.ticker.Reset()
			updateDisplay()

		case 'b', 'B':
			m.marks.Add(m.ticker.Snapshot().Current)
			updateDisplay()

		case 'x', 'X':
			m.marks.Remove(m.ticker.Snapshot().Current)
			updateDisplay()

		case 't', 'T':
			m.palette = theme.Next(m.palette)
			m.themes.Save(m.palette)
			updateDisplay()

		case 's', 'S':
			m.ticker.Pause()
			title, content := m.ticker.Text()
			titleEntry := widget.NewEntry()
			titleEntry.SetText(title)
			coverEntry := widget.NewEntry()
			coverEntry.SetPlaceHolder("https://… (optional)")
			items := []*widget.FormItem{
				widget.NewFormItem("Title", titleEntry),
				widget.NewFormItem("Cover URL", coverEntry),
			}
			dialog.ShowForm("Save to library", "Save", "Cancel", items, func(ok bool) {
				if !ok {
					return
				}
				cover := strings.TrimSpace(coverEntry.Text)
				if _, err := lib.Save(strings.TrimSpace(titleEntry.Text), cover, content); err == nil {
					books = lib.List()
					libList.Refresh()
				}
			}, w)
			updateDisplay()

		case '+', '=':
			if m.fontSize < 200 {
				m.fontSize += 5
				updateDisplay()
			}
		case '-':
			if m.fontSize > 20 {
				m.fontSize -= 5
				updateDisplay()
			}
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(container.NewStack(libPanel))

	w.SetOnClosed(func() {
		m.ticker.Stop()
	})

	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(updateDisplay)
	}()

	w.ShowAndRun()
}
