package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestArchiveFlashcards(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "flashcards.json")
	content := `[{"front": "hello", "back": "hola", "source_lang": "english", "target_lang": "spanish"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create flashcards file: %v", err)
	}

	archived, err := ArchiveFlashcards(path)
	if err != nil {
		t.Fatalf("ArchiveFlashcards() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Flashcards file should no longer exist")
	}
	if filepath.Dir(archived) != filepath.Join(tmpDir, "archive") {
		t.Errorf("Archive placed in unexpected directory: %s", archived)
	}
	name := filepath.Base(archived)
	if !strings.HasPrefix(name, "flashcards-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("Unexpected archive name: %s", name)
	}

	data, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("Failed to read archive: %v", err)
	}
	if string(data) != content {
		t.Errorf("Archive content changed: %s", data)
	}
}

func TestArchiveFlashcardsMissingFile(t *testing.T) {
	_, err := ArchiveFlashcards(filepath.Join(t.TempDir(), "flashcards.json"))
	if !errors.Is(err, ErrNothingToArchive) {
		t.Errorf("Expected ErrNothingToArchive, got %v", err)
	}
}

func TestArchiveFlashcardsDirectory(t *testing.T) {
	if _, err := ArchiveFlashcards(t.TempDir()); err == nil {
		t.Error("Expected error when archiving a directory")
	}
}

func TestArchiveSameSecond(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cards.json")
	now := time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)

	var archived []string
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := archiveAt(path, now)
		if err != nil {
			t.Fatalf("archiveAt() error = %v", err)
		}
		archived = append(archived, filepath.Base(got))
	}

	if archived[0] != "cards-20240501-123000.json" {
		t.Errorf("Unexpected first archive name %s", archived[0])
	}
	if archived[1] != "cards-20240501-123000.123456.json" {
		t.Errorf("Unexpected second archive name %s", archived[1])
	}
}
