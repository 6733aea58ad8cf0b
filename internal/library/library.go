// Package library persists saved texts as a JSON file under the state
// directory.
package library

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const libraryFileName = "speedReaderLibrary.json"

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("book not found")

// Entry is one saved book. IDs are generated on save and stay stable across
// list reorderings, unlike a bare array position.
type Entry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Cover   string `json:"cover,omitempty"`
	Content string `json:"content"`
}

// BookInfo is the listing view of an entry, without its content.
type BookInfo struct {
	ID    string
	Title string
	Cover string
}

// Store manages the persistent library.
type Store struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewStore creates or loads the library from XDG_STATE_HOME/flit.
func NewStore() (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{path: filepath.Join(dir, libraryFileName)}
	if err := store.load(); err != nil {
		// Malformed or unreadable library: start empty, never fail app load.
		store.entries = nil
	}
	return store, nil
}

// stateDir returns XDG_STATE_HOME/flit or ~/.local/state/flit.
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "flit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "flit")
}

// Save appends a new entry and persists it. An empty title becomes
// "Untitled".
func (s *Store) Save(title, cover, content string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		title = "Untitled"
	}
	e := Entry{ID: uuid.NewString(), Title: title, Cover: cover, Content: content}
	s.entries = append(s.entries, e)
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return Entry{}, err
	}
	return e, nil
}

// List returns the saved books in insertion order.
func (s *Store) List() []BookInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BookInfo, len(s.entries))
	for i, e := range s.entries {
		out[i] = BookInfo{ID: e.ID, Title: e.Title, Cover: e.Cover}
	}
	return out
}

// Load returns the content of the book with the given ID.
func (s *Store) Load(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e.Content, nil
		}
	}
	return "", ErrNotFound
}

// LoadAt returns the content of the book at a list position.
func (s *Store) LoadAt(idx int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx < 0 || idx >= len(s.entries) {
		return "", ErrNotFound
	}
	return s.entries[idx].Content, nil
}

// Delete removes the book with the given ID. Unknown IDs are a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// DeleteAt removes the book at a list position. Out-of-range indices are a
// no-op.
func (s *Store) DeleteAt(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.entries) {
		return nil
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return s.save()
}

// Len returns the number of saved books.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.entries)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
