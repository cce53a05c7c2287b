package flashcard

import "strings"

// Flashcard is one source word paired with the word at the same position
// in the translation
type Flashcard struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Generate pairs the i-th whitespace token of sourceText with the i-th token
// of translatedText. Positions where either side has no token are dropped.
// No linguistic alignment is attempted.
func Generate(sourceText, translatedText, sourceLang, targetLang string) []Flashcard {
	sourceWords := strings.Fields(sourceText)
	translatedWords := strings.Fields(translatedText)

	n := max(len(sourceWords), len(translatedWords))
	cards := make([]Flashcard, 0, min(len(sourceWords), len(translatedWords)))

	for i := 0; i < n; i++ {
		front := tokenAt(sourceWords, i)
		back := tokenAt(translatedWords, i)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, Flashcard{
			Front:      front,
			Back:       back,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
	}

	return cards
}

// tokenAt pads the shorter side with empty tokens
func tokenAt(words []string, i int) string {
	if i < len(words) {
		return words[i]
	}
	return ""
}
