package flashcard

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// DefaultPath is the flashcard file used when none is configured
const DefaultPath = "flashcards.json"

// Load reads every flashcard in path. A missing or blank file holds no cards;
// anything else that is not a JSON array of cards is a PersistenceError.
func Load(path string) ([]Flashcard, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Flashcard{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Cause: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Flashcard{}, nil
	}

	var cards []Flashcard
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Cause: err}
	}
	if cards == nil {
		// a literal null
		cards = []Flashcard{}
	}
	return cards, nil
}

// Save appends cards to the ones already in path and rewrites the file
func Save(cards []Flashcard, path string) error {
	existing, err := Load(path)
	if err != nil {
		return err
	}

	if err := write(append(existing, cards...), path); err != nil {
		return &PersistenceError{Op: "save", Path: path, Cause: err}
	}
	return nil
}

// DeleteAt removes the card at index and rewrites the file. An out of range
// index returns InvalidIndexError and leaves the file untouched.
func DeleteAt(index int, path string) error {
	cards, err := Load(path)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(cards) {
		return &InvalidIndexError{Index: index, Length: len(cards)}
	}

	remaining := append(cards[:index:index], cards[index+1:]...)
	if err := write(remaining, path); err != nil {
		return &PersistenceError{Op: "delete", Path: path, Cause: err}
	}
	return nil
}

// write encodes cards as indented JSON with non-ASCII text kept literal
func write(cards []Flashcard, path string) error {
	if cards == nil {
		cards = []Flashcard{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cards); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Store binds the flashcard operations to one file
type Store struct {
	path string
}

// NewStore returns a store for path, or DefaultPath when path is empty
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() ([]Flashcard, error) {
	return Load(s.path)
}

func (s *Store) Save(cards []Flashcard) error {
	return Save(cards, s.path)
}

func (s *Store) DeleteAt(index int) error {
	return DeleteAt(index, s.path)
}
