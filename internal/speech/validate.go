package speech

import (
	"strings"
	"unicode"
)

// ValidateText checks that text has something a voice can pronounce
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoSpeakableText
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return nil
		}
	}

	return ErrNoSpeakableText
}

// normalizeLang lowercases a language code and drops surrounding whitespace
func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
