package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/language"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

var (
	// ErrEmptyText is returned when there is nothing to translate
	ErrEmptyText = errors.New("text to translate is empty")

	// ErrUnknownLanguage is returned for a language name missing from the registry
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrNoPendingFlashcards is returned by SavePending when nothing was generated
	ErrNoPendingFlashcards = errors.New("no flashcards to save yet")
)

// UnknownLanguageName is shown when a detected code has no registry entry
const UnknownLanguageName = "unknown"

// Translator is the part of translation.Gateway a session needs
type Translator interface {
	Translate(ctx context.Context, req translation.Request, backend translation.Backend) (translation.Result, error)
}

// Synthesizer is the part of speech.Renderer a session needs
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, outputPath string) (string, error)
}

// FlashcardStore persists flashcards
type FlashcardStore interface {
	Load() ([]flashcard.Flashcard, error)
	Save(cards []flashcard.Flashcard) error
	DeleteAt(index int) error
	Path() string
}

// Outcome describes a finished translation
type Outcome struct {
	Text         string                `json:"text"`
	Result       translation.Result    `json:"result"`
	Backend      string                `json:"backend"`
	SourceName   string                `json:"source_name"`
	SourceCode   string                `json:"source_code"`
	TargetName   string                `json:"target_name"`
	TargetCode   string                `json:"target_code"`
	DetectedName string                `json:"detected_name"`
	Flashcards   []flashcard.Flashcard `json:"flashcards"`
}

// Session is not safe for concurrent use. Shells serving several requests
// must serialize access.
type Session struct {
	translator Translator
	speaker    Synthesizer
	store      FlashcardStore
	logger     *zap.Logger

	last      *Outcome
	pending   []flashcard.Flashcard
	lastAudio string
}

// New creates a session. speaker may be nil when speech is disabled.
func New(translator Translator, speaker Synthesizer, store FlashcardStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		translator: translator,
		speaker:    speaker,
		store:      store,
		logger:     logger,
	}
}

// Translate resolves the language names, runs the translation on backend and
// replaces the pending flashcards with ones generated from the result.
// sourceName may be "auto-detect" on backends that support it.
func (s *Session) Translate(ctx context.Context, text, sourceName, targetName string, backend translation.Backend) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	sourceCode, sourceName, err := resolveSource(sourceName)
	if err != nil {
		return nil, err
	}
	targetCode, ok := language.ResolveCode(targetName)
	if !ok {
		return nil, fmt.Errorf("%w: target %q", ErrUnknownLanguage, targetName)
	}
	targetName = strings.ToLower(strings.TrimSpace(targetName))

	res, err := s.translator.Translate(ctx, translation.Request{
		Text:       text,
		SourceCode: sourceCode,
		TargetCode: targetCode,
	}, backend)
	if err != nil {
		return nil, err
	}

	detectedName, ok := language.NameForCode(res.DetectedSourceCode)
	if !ok {
		detectedName = UnknownLanguageName
	}

	// cards from an auto-detected source carry the detected language
	cardSource := sourceName
	if sourceCode == translation.AutoDetect && detectedName != UnknownLanguageName {
		cardSource = detectedName
	}

	out := &Outcome{
		Text:         text,
		Result:       res,
		Backend:      backend.String(),
		SourceName:   sourceName,
		SourceCode:   sourceCode,
		TargetName:   targetName,
		TargetCode:   targetCode,
		DetectedName: detectedName,
		Flashcards:   flashcard.Generate(text, res.TranslatedText, cardSource, targetName),
	}

	s.last = out
	s.pending = out.Flashcards

	s.logger.Debug("session translation done",
		zap.String("backend", out.Backend),
		zap.Int("pending_flashcards", len(s.pending)))
	return out, nil
}

func resolveSource(name string) (code, normalized string, err error) {
	if language.IsAuto(name) {
		return translation.AutoDetect, "auto-detect", nil
	}
	code, ok := language.ResolveCode(name)
	if !ok {
		return "", "", fmt.Errorf("%w: source %q", ErrUnknownLanguage, name)
	}
	return code, strings.ToLower(strings.TrimSpace(name)), nil
}

// GenerateAndMaybeSaveFlashcards builds flashcards for a translation pair,
// makes them the pending set and, with save set, persists them right away.
func (s *Session) GenerateAndMaybeSaveFlashcards(sourceText, translatedText, sourceLang, targetLang string, save bool) ([]flashcard.Flashcard, error) {
	cards := flashcard.Generate(sourceText, translatedText, sourceLang, targetLang)
	s.pending = cards

	if !save {
		return cards, nil
	}
	if err := s.SavePending(); err != nil && !errors.Is(err, ErrNoPendingFlashcards) {
		return cards, err
	}
	return cards, nil
}

// SavePending appends the pending flashcards to the store and clears them
func (s *Session) SavePending() error {
	if len(s.pending) == 0 {
		return ErrNoPendingFlashcards
	}

	if err := s.store.Save(s.pending); err != nil {
		return err
	}

	s.logger.Info("flashcards saved",
		zap.Int("count", len(s.pending)),
		zap.String("path", s.store.Path()))
	s.pending = nil
	return nil
}

// ListFlashcards returns every saved flashcard in file order
func (s *Session) ListFlashcards() ([]flashcard.Flashcard, error) {
	return s.store.Load()
}

// DeleteFlashcard removes the saved flashcard at index. Later indices shift
// down by one.
func (s *Session) DeleteFlashcard(index int) error {
	if err := s.store.DeleteAt(index); err != nil {
		return err
	}
	s.logger.Info("flashcard deleted", zap.Int("index", index), zap.String("path", s.store.Path()))
	return nil
}

// Speak renders text in the language with code lang. An empty outputPath
// uses the renderer default, which each call overwrites.
func (s *Session) Speak(ctx context.Context, text, lang, outputPath string) (string, error) {
	if s.speaker == nil {
		return "", errors.New("speech output is disabled")
	}

	path, err := s.speaker.Synthesize(ctx, text, lang, outputPath)
	if err != nil {
		return "", err
	}
	s.lastAudio = path
	return path, nil
}

// SpeakLast renders the last translation in its target language
func (s *Session) SpeakLast(ctx context.Context, outputPath string) (string, error) {
	if s.last == nil {
		return "", errors.New("nothing translated yet")
	}
	return s.Speak(ctx, s.last.Result.TranslatedText, s.last.TargetCode, outputPath)
}

// Last returns the most recent translation or nil
func (s *Session) Last() *Outcome {
	return s.last
}

// Pending returns a copy of the flashcards waiting to be saved
func (s *Session) Pending() []flashcard.Flashcard {
	out := make([]flashcard.Flashcard, len(s.pending))
	copy(out, s.pending)
	return out
}

// LastAudio returns the file written by the most recent Speak call
func (s *Session) LastAudio() string {
	return s.lastAudio
}

// StorePath returns the flashcard file in use
func (s *Session) StorePath() string {
	return s.store.Path()
}
