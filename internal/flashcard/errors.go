package flashcard

import "fmt"

// PersistenceError reports a flashcard file that could not be read, parsed or written
type PersistenceError struct {
	Op   string // "load", "save" or "delete"
	Path string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s flashcards %s: %v", e.Op, e.Path, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// InvalidIndexError is returned by DeleteAt for an index outside 0 <= index < Length
type InvalidIndexError struct {
	Index  int
	Length int
}

func (e *InvalidIndexError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("invalid flashcard index %d: no flashcards saved", e.Index)
	}
	return fmt.Sprintf("invalid flashcard index %d: must be between 0 and %d", e.Index, e.Length-1)
}
