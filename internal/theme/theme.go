// Package theme persists the color palette and turns it into lipgloss
// styles.
package theme

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

const themeFileName = "speedreader_theme_v2.json"

// Theme is the persisted palette.
type Theme struct {
	BG     string `json:"bg"`
	Text   string `json:"text"`
	Accent string `json:"accent"`
}

// Default returns the stock palette.
func Default() Theme {
	return Theme{BG: "#1e1e26", Text: "#e0e0e0", Accent: "#ffd54f"}
}

// Presets are the built-in palettes, cycled by the theme command.
var Presets = []Theme{
	Default(),
	{BG: "#0b0e14", Text: "#bfbdb6", Accent: "#59c2ff"},
	{BG: "#fdf6e3", Text: "#586e75", Accent: "#b58900"},
	{BG: "#1b1b1b", Text: "#d3c6aa", Accent: "#a7c080"},
}

// Next returns the preset after cur, starting the cycle over when cur is not
// a preset.
func Next(cur Theme) Theme {
	for i, p := range Presets {
		if p == cur {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return Presets[0]
}

// Store persists the theme under the state directory.
type Store struct {
	path string
}

// NewStore creates or opens the theme store at XDG_STATE_HOME/flit.
func NewStore() (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, themeFileName)}, nil
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "flit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "flit")
}

// Load returns the saved theme overlaid on the defaults. A missing or
// malformed file yields the defaults; fields absent from the file keep their
// default values.
func (s *Store) Load() Theme {
	t := Default()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return t
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Default()
	}
	return t
}

// Save persists the theme.
func (s *Store) Save(t Theme) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Reset removes the saved theme so the defaults apply again.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Styles is the lipgloss rendering of a theme, shared by the TUI views.
type Styles struct {
	Title     lipgloss.Style
	Flash     lipgloss.Style
	ORP       lipgloss.Style
	Highlight lipgloss.Style
	Bookmark  lipgloss.Style
	Lookahead lipgloss.Style
	Status    lipgloss.Style
	Controls  lipgloss.Style
	Notice    lipgloss.Style
	Complete  lipgloss.Style
	Bar       lipgloss.Style
}

// Styles builds the style set for a theme.
func (t Theme) Styles() Styles {
	accent := lipgloss.Color(t.Accent)
	text := lipgloss.Color(t.Text)
	bg := lipgloss.Color(t.BG)

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Flash:     lipgloss.NewStyle().Bold(true).Foreground(text),
		ORP:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(bg).Background(accent),
		Bookmark:  lipgloss.NewStyle().Underline(true).Foreground(accent),
		Lookahead: lipgloss.NewStyle().Faint(true).Foreground(text),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1),
		Controls:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true),
		Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")).Bold(true),
		Complete:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		Bar:       lipgloss.NewStyle().Foreground(accent),
	}
}
