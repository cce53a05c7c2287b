package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/testutil"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

type fixture struct {
	session    *Session
	translator *testutil.MockTranslator
	speaker    *testutil.MockSynthesizer
	store      *flashcard.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	tr := &testutil.MockTranslator{
		Translations: map[string]string{"hello world": "hola mundo", "guten Morgen": "good morning"},
		Detected:     "de",
	}
	sp := &testutil.MockSynthesizer{Dir: dir}
	store := flashcard.NewStore(filepath.Join(dir, "flashcards.json"))

	return &fixture{
		session:    New(tr, sp, store, nil),
		translator: tr,
		speaker:    sp,
		store:      store,
	}
}

func TestTranslate(t *testing.T) {
	f := newFixture(t)

	out, err := f.session.Translate(context.Background(), "hello world", " English ", "Spanish", translation.MyMemory)
	require.NoError(t, err)

	assert.Equal(t, "hola mundo", out.Result.TranslatedText)
	assert.Equal(t, "english", out.SourceName)
	assert.Equal(t, "en", out.SourceCode)
	assert.Equal(t, "spanish", out.TargetName)
	assert.Equal(t, "es", out.TargetCode)
	assert.Equal(t, "english", out.DetectedName)
	assert.Equal(t, "mymemory", out.Backend)
	assert.Equal(t, []flashcard.Flashcard{
		{Front: "hello", Back: "hola", SourceLang: "english", TargetLang: "spanish"},
		{Front: "world", Back: "mundo", SourceLang: "english", TargetLang: "spanish"},
	}, out.Flashcards)

	assert.Same(t, out, f.session.Last())
	assert.Equal(t, out.Flashcards, f.session.Pending())
	assert.Equal(t, []string{"mymemory: hello world (en->es)"}, f.translator.Calls)
}

func TestTranslate_AutoDetect(t *testing.T) {
	f := newFixture(t)

	out, err := f.session.Translate(context.Background(), "guten Morgen", "Auto-Detect", "english", translation.Google)
	require.NoError(t, err)

	assert.Equal(t, translation.AutoDetect, out.SourceCode)
	assert.Equal(t, "auto-detect", out.SourceName)
	assert.Equal(t, "german", out.DetectedName)
	require.Len(t, out.Flashcards, 2)
	assert.Equal(t, "german", out.Flashcards[0].SourceLang)
}

func TestTranslate_AutoDetectOnMyMemory(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Translate(context.Background(), "hello", "auto-detect", "spanish", translation.MyMemory)
	assert.ErrorIs(t, err, translation.ErrUnsupportedOperation)
	assert.Nil(t, f.session.Last())
	assert.Empty(t, f.session.Pending())
}

func TestTranslate_UnknownDetectedCode(t *testing.T) {
	f := newFixture(t)
	f.translator.Detected = "xx"

	out, err := f.session.Translate(context.Background(), "hello world", "auto", "spanish", translation.Google)
	require.NoError(t, err)
	assert.Equal(t, UnknownLanguageName, out.DetectedName)
	assert.Equal(t, "auto-detect", out.Flashcards[0].SourceLang)
}

func TestTranslate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.Translate(ctx, "  ", "english", "spanish", translation.MyMemory)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = f.session.Translate(ctx, "hi", "klingon", "spanish", translation.MyMemory)
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	_, err = f.session.Translate(ctx, "hi", "english", "Choose a language", translation.MyMemory)
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	assert.Empty(t, f.translator.Calls)
}

func TestTranslate_BackendErrorKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.session.Translate(ctx, "hello world", "english", "spanish", translation.MyMemory)
	require.NoError(t, err)

	f.translator.Err = &translation.BackendError{Backend: "mymemory", Message: "down"}
	_, err = f.session.Translate(ctx, "good day", "english", "spanish", translation.MyMemory)
	assert.True(t, translation.IsBackendError(err))

	assert.Same(t, first, f.session.Last())
	assert.Len(t, f.session.Pending(), 2)
}

func TestSavePending(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.session.SavePending(), ErrNoPendingFlashcards)

	_, err := f.session.Translate(context.Background(), "hello world", "english", "spanish", translation.MyMemory)
	require.NoError(t, err)
	require.NoError(t, f.session.SavePending())
	assert.Empty(t, f.session.Pending())

	cards, err := f.session.ListFlashcards()
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	assert.ErrorIs(t, f.session.SavePending(), ErrNoPendingFlashcards)
}

func TestSavePending_PersistenceError(t *testing.T) {
	f := newFixture(t)
	testutil.CreateTestFile(t, f.store.Path(), []byte("{invalid"))

	_, err := f.session.GenerateAndMaybeSaveFlashcards("a b", "x y", "english", "spanish", false)
	require.NoError(t, err)

	var perr *flashcard.PersistenceError
	assert.ErrorAs(t, f.session.SavePending(), &perr)
	assert.Len(t, f.session.Pending(), 2, "pending cards survive a failed save")
}

func TestGenerateAndMaybeSaveFlashcards(t *testing.T) {
	f := newFixture(t)

	cards, err := f.session.GenerateAndMaybeSaveFlashcards("a b c", "x y", "english", "spanish", false)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	testutil.AssertFileNotExists(t, f.store.Path())

	cards, err = f.session.GenerateAndMaybeSaveFlashcards("one", "uno", "english", "spanish", true)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Empty(t, f.session.Pending())

	saved, err := f.session.ListFlashcards()
	require.NoError(t, err)
	assert.Equal(t, cards, saved)

	cards, err = f.session.GenerateAndMaybeSaveFlashcards("one", "", "english", "spanish", true)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestDeleteFlashcard(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.GenerateAndMaybeSaveFlashcards("hello world", "hola mundo", "english", "spanish", true)
	require.NoError(t, err)

	require.NoError(t, f.session.DeleteFlashcard(0))
	cards, _ := f.session.ListFlashcards()
	require.Len(t, cards, 1)
	assert.Equal(t, "world", cards[0].Front)

	var iie *flashcard.InvalidIndexError
	assert.ErrorAs(t, f.session.DeleteFlashcard(5), &iie)
}

func TestSpeak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.SpeakLast(ctx, "")
	assert.Error(t, err)

	_, err = f.session.Translate(ctx, "hello world", "english", "spanish", translation.MyMemory)
	require.NoError(t, err)

	path, err := f.session.SpeakLast(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, path, f.session.LastAudio())
	testutil.AssertFileContent(t, path, testutil.MP3Header())
	assert.Equal(t, []string{"es: hola mundo"}, f.speaker.Calls)

	f.speaker.Err = errors.New("tts down")
	_, err = f.session.Speak(ctx, "hola", "es", "")
	assert.EqualError(t, err, "tts down")
	assert.Equal(t, path, f.session.LastAudio())
}

func TestSpeak_Disabled(t *testing.T) {
	s := New(&testutil.MockTranslator{}, nil, flashcard.NewStore(filepath.Join(t.TempDir(), "f.json")), nil)

	_, err := s.Speak(context.Background(), "hola", "es", "")
	assert.Error(t, err)
}

func TestPendingIsCopy(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.GenerateAndMaybeSaveFlashcards("a", "b", "english", "spanish", false)
	require.NoError(t, err)

	p := f.session.Pending()
	p[0].Front = "changed"
	assert.Equal(t, "a", f.session.Pending()[0].Front)
	assert.Equal(t, f.store.Path(), f.session.StorePath())
}
