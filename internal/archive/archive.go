// Package archive moves a saved flashcard collection out of the way so a
// fresh one can be started.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNothingToArchive is returned when the flashcard file does not exist
var ErrNothingToArchive = errors.New("no flashcards file to archive")

// timestampLayout names archives so they sort chronologically
const timestampLayout = "20060102-150405"

// ArchiveFlashcards moves the flashcard file at path into an "archive"
// directory next to it and returns the new location. The next save starts a
// new, empty collection.
func ArchiveFlashcards(path string) (string, error) {
	return archiveAt(path, time.Now())
}

func archiveAt(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNothingToArchive, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now.Format(timestampLayout), ext))
	if _, err := os.Stat(archivePath); err == nil {
		// Same second, fall back to microseconds
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now.Format(timestampLayout+".000000"), ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive flashcards: %w", err)
	}
	return archivePath, nil
}
