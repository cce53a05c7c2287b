package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage is returned for a language the provider cannot speak
	ErrUnsupportedLanguage = errors.New("language not supported for speech synthesis")

	// ErrNoSpeakableText is returned for empty or punctuation-only input
	ErrNoSpeakableText = errors.New("no text to speak")
)

// SynthesisError is the single error type returned by Renderer.Synthesize
type SynthesisError struct {
	Provider string
	Lang     string
	Message  string
	Cause    error
}

func (e *SynthesisError) Error() string {
	msg := fmt.Sprintf("speech synthesis failed (%s, lang %q): %s", e.Provider, e.Lang, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SynthesisError) Unwrap() error {
	return e.Cause
}
