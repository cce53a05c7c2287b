package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal/config"
	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/testutil"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

type testEnv struct {
	dir        string
	store      *flashcard.Store
	translator *testutil.MockTranslator
	speaker    *testutil.MockSynthesizer
}

// newTestEnv replaces the application wiring with mocks backed by a
// flashcard file in a temp directory
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())

	dir := t.TempDir()
	env := &testEnv{
		dir:   dir,
		store: flashcard.NewStore(filepath.Join(dir, "flashcards.json")),
		translator: &testutil.MockTranslator{
			Translations: map[string]string{
				"good morning": "buenos días",
				"hello world":  "hola mundo",
			},
			Detected: "en",
		},
		speaker: &testutil.MockSynthesizer{Dir: dir},
	}

	orig := newApp
	newApp = func(_ context.Context, cfg *config.Config) (*App, error) {
		return &App{
			Config:  cfg,
			Logger:  zap.NewNop(),
			Store:   env.store,
			Session: session.New(env.translator, env.speaker, env.store, nil),
		}, nil
	}
	t.Cleanup(func() {
		newApp = orig
		viper.Reset()
	})
	return env
}

func (env *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := CreateRootCommand(NewFlags())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (env *testEnv) seed(t *testing.T, cards ...flashcard.Flashcard) {
	t.Helper()
	if err := env.store.Save(cards); err != nil {
		t.Fatalf("Failed to seed flashcards: %v", err)
	}
}

func TestTranslateCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "translate", "--from", "english", "--to", "spanish", "good", "morning")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	for _, want := range []string{"buenos días", "english → spanish via mymemory", "Flashcards (2):", "good → buenos", "morning → días"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if len(env.translator.Calls) != 1 || env.translator.Calls[0] != "mymemory: good morning (en->es)" {
		t.Errorf("Unexpected translator calls %v", env.translator.Calls)
	}

	// nothing saved without --save
	cards, err := env.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 0 {
		t.Errorf("Expected no saved flashcards, got %d", len(cards))
	}
}

func TestTranslateAutoDetectRequiresGoogle(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "translate", "--to", "spanish", "hello")
	if err == nil || !strings.Contains(err.Error(), "--from is required") {
		t.Fatalf("Expected --from error, got %v", err)
	}

	_, _, err = env.run(t, "translate", "--from", "auto-detect", "--to", "spanish", "hello")
	if !errors.Is(err, translation.ErrUnsupportedOperation) {
		t.Errorf("Expected unsupported operation, got %v", err)
	}
}

func TestTranslateGoogleAutoDetectSaveAndSpeak(t *testing.T) {
	env := newTestEnv(t)
	audio := filepath.Join(env.dir, "hola.mp3")

	out, _, err := env.run(t, "translate", "--backend", "google", "--to", "spanish",
		"--save", "--speak", "--audio-out", audio, "hello world")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}

	if !strings.Contains(out, "Detected language: english") {
		t.Errorf("Detected language missing:\n%s", out)
	}
	if !strings.Contains(out, "Audio saved to: "+audio) {
		t.Errorf("Audio path missing:\n%s", out)
	}
	testutil.AssertFileExists(t, audio)

	if len(env.speaker.Calls) != 1 || env.speaker.Calls[0] != "es: hola mundo" {
		t.Errorf("Unexpected speech calls %v", env.speaker.Calls)
	}

	cards, err := env.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []flashcard.Flashcard{
		{Front: "hello", Back: "hola", SourceLang: "english", TargetLang: "spanish"},
		{Front: "world", Back: "mundo", SourceLang: "english", TargetLang: "spanish"},
	}
	if len(cards) != len(want) {
		t.Fatalf("Expected %d saved cards, got %d", len(want), len(cards))
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("card %d = %+v, want %+v", i, cards[i], want[i])
		}
	}
}

func TestTranslateSpeechFailureIsWarning(t *testing.T) {
	env := newTestEnv(t)
	env.speaker.Err = errors.New("speaker offline")

	out, stderr, err := env.run(t, "translate", "--from", "english", "--to", "spanish", "--speak", "good morning")
	if err != nil {
		t.Fatalf("translate should succeed without audio: %v", err)
	}
	if !strings.Contains(out, "buenos días") {
		t.Errorf("Translation missing:\n%s", out)
	}
	if !strings.Contains(stderr, "speaker offline") {
		t.Errorf("Expected warning on stderr, got %q", stderr)
	}
}

func TestTranslateUnknownLanguage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "translate", "--from", "english", "--to", "elvish", "hello")
	if !errors.Is(err, session.ErrUnknownLanguage) {
		t.Errorf("Expected ErrUnknownLanguage, got %v", err)
	}
}

func TestTranslateBatch(t *testing.T) {
	env := newTestEnv(t)
	batchFile := filepath.Join(env.dir, "batch.txt")
	testutil.CreateTestFile(t, batchFile, []byte("# greetings\ngood morning\n\nhello world\n"))

	out, _, err := env.run(t, "translate", "--from", "english", "--to", "spanish", "--batch", batchFile, "--save")
	if err != nil {
		t.Fatalf("batch translate failed: %v", err)
	}
	if !strings.Contains(out, "Translated 2 of 2 texts") {
		t.Errorf("Summary missing:\n%s", out)
	}

	cards, err := env.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 4 {
		t.Errorf("Expected 4 saved cards, got %d", len(cards))
	}
}

func TestTranslateBatchReportsFailures(t *testing.T) {
	env := newTestEnv(t)
	env.translator.Err = &translation.BackendError{Backend: "mymemory", Message: "quota exceeded"}
	batchFile := filepath.Join(env.dir, "batch.txt")
	testutil.CreateTestFile(t, batchFile, []byte("one\ntwo\n"))

	_, stderr, err := env.run(t, "translate", "--from", "english", "--to", "spanish", "--batch", batchFile)
	if err == nil || !strings.Contains(err.Error(), "2 texts failed") {
		t.Fatalf("Expected batch failure, got %v", err)
	}
	if !strings.Contains(stderr, "Error on line 1") || !strings.Contains(stderr, "Error on line 2") {
		t.Errorf("Expected per-line errors, got %q", stderr)
	}
}

func TestLanguagesCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "languages", "span", "--codes")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	if strings.TrimSpace(out) != fmt.Sprintf("%-24s %s", "spanish", "es") {
		t.Errorf("Unexpected output %q", out)
	}

	if _, _, err := env.run(t, "languages", "zzz"); err == nil {
		t.Error("Expected error for a prefix without matches")
	}
}

func TestFlashcardsListAndDelete(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "flashcards", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No flashcards saved.") {
		t.Errorf("Unexpected empty listing %q", out)
	}

	env.seed(t,
		flashcard.Flashcard{Front: "cat", Back: "gato", SourceLang: "english", TargetLang: "spanish"},
		flashcard.Flashcard{Front: "dog", Back: "perro", SourceLang: "english", TargetLang: "spanish"},
	)

	out, _, err = env.run(t, "flashcards", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "  0. cat → gato (english → spanish)") || !strings.Contains(out, "  1. dog → perro") {
		t.Errorf("Unexpected listing:\n%s", out)
	}

	if _, _, err := env.run(t, "flashcards", "delete", "0"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	cards, _ := env.store.Load()
	if len(cards) != 1 || cards[0].Front != "dog" {
		t.Errorf("Unexpected cards after delete %+v", cards)
	}

	_, _, err = env.run(t, "flashcards", "delete", "5")
	var idxErr *flashcard.InvalidIndexError
	if !errors.As(err, &idxErr) {
		t.Errorf("Expected InvalidIndexError, got %v", err)
	}

	if _, _, err := env.run(t, "flashcards", "delete", "first"); err == nil {
		t.Error("Expected error for non-numeric index")
	}
}

func TestFlashcardsExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, flashcard.Flashcard{Front: "cat", Back: "gato", SourceLang: "english", TargetLang: "spanish"})
	output := filepath.Join(env.dir, "cards.csv")

	out, _, err := env.run(t, "flashcards", "export", "--format", "csv", "--output", output)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Exported 1 flashcards (0 with audio)") {
		t.Errorf("Unexpected output %q", out)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1][0] != "cat" || records[1][1] != "gato" {
		t.Errorf("Unexpected CSV records %v", records)
	}
}

func TestFlashcardsExportAPKGWithAudio(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t,
		flashcard.Flashcard{Front: "cat", Back: "gato", SourceLang: "english", TargetLang: "spanish"},
		flashcard.Flashcard{Front: "dog", Back: "Hund", SourceLang: "english", TargetLang: "klingon"},
	)
	output := filepath.Join(env.dir, "deck.apkg")

	out, stderr, err := env.run(t, "flashcards", "export", "--output", output, "--deck-name", "Animals", "--with-audio")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Exported 2 flashcards (1 with audio)") {
		t.Errorf("Unexpected output %q", out)
	}
	if !strings.Contains(stderr, `no language code for "klingon"`) {
		t.Errorf("Expected warning for unknown language, got %q", stderr)
	}

	reader, err := zip.OpenReader(output)
	if err != nil {
		t.Fatalf("Failed to open APKG: %v", err)
	}
	defer reader.Close()

	names := make(map[string]bool)
	for _, f := range reader.File {
		names[f.Name] = true
	}
	if !names["collection.anki2"] || !names["0"] {
		t.Errorf("APKG missing collection or audio: %v", names)
	}
}

func TestFlashcardsExportEmpty(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "flashcards", "export", "--output", filepath.Join(env.dir, "x.apkg"))
	if err == nil || !strings.Contains(err.Error(), "nothing to export") {
		t.Errorf("Expected empty export error, got %v", err)
	}

	_, _, err = env.run(t, "flashcards", "export", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), "unknown export format") {
		t.Errorf("Expected format error, got %v", err)
	}
}

func TestFlashcardsArchive(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, flashcard.Flashcard{Front: "cat", Back: "gato", SourceLang: "english", TargetLang: "spanish"})

	out, _, err := env.run(t, "flashcards", "archive")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if !strings.Contains(out, "Flashcards archived to: "+filepath.Join(env.dir, "archive", "flashcards-")) {
		t.Errorf("Unexpected output %q", out)
	}
	testutil.AssertFileNotExists(t, env.store.Path())

	if _, _, err := env.run(t, "flashcards", "archive"); err == nil {
		t.Error("Expected error when there is nothing to archive")
	}
}

func TestSpeakCommand(t *testing.T) {
	env := newTestEnv(t)
	output := filepath.Join(env.dir, "speech.mp3")

	out, _, err := env.run(t, "speak", "--lang", "german", "--output", output, "guten", "tag")
	if err != nil {
		t.Fatalf("speak failed: %v", err)
	}
	if !strings.Contains(out, "Audio saved to: "+output) {
		t.Errorf("Unexpected output %q", out)
	}
	if len(env.speaker.Calls) != 1 || env.speaker.Calls[0] != "de: guten tag" {
		t.Errorf("Unexpected speech calls %v", env.speaker.Calls)
	}

	if _, _, err := env.run(t, "speak", "--lang", "klingon", "qapla"); err == nil {
		t.Error("Expected error for unknown language")
	}
}
