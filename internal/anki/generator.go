package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
)

// Card represents a single Anki note built from a flashcard
type Card struct {
	Front      string // source word
	Back       string // translated word
	SourceLang string
	TargetLang string
	AudioFile  string // optional pronunciation of Back
}

// FromFlashcard converts a stored flashcard
func FromFlashcard(fc flashcard.Flashcard) Card {
	return Card{
		Front:      fc.Front,
		Back:       fc.Back,
		SourceLang: fc.SourceLang,
		TargetLang: fc.TargetLang,
	}
}

// Tags returns the space separated Anki tags of the card
func (c Card) Tags() string {
	var tags []string
	for _, lang := range []string{c.SourceLang, c.TargetLang} {
		if lang = strings.TrimSpace(lang); lang != "" {
			tags = append(tags, strings.ReplaceAll(strings.ToLower(lang), " ", "_"))
		}
	}
	return strings.Join(tags, " ")
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddFlashcards adds every flashcard, skipping duplicates of the same pair
func (g *Generator) AddFlashcards(cards []flashcard.Flashcard) {
	seen := make(map[string]bool, len(g.cards))
	for _, c := range g.cards {
		seen[dedupKey(c)] = true
	}
	for _, fc := range cards {
		card := FromFlashcard(fc)
		if key := dedupKey(card); !seen[key] {
			seen[key] = true
			g.AddCard(card)
		}
	}
}

func dedupKey(c Card) string {
	return strings.Join([]string{c.Front, c.Back, c.SourceLang, c.TargetLang}, "\x1f")
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	if dir := filepath.Dir(g.options.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "Audio", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Front,
			card.Back,
			formatAudioField(card.AudioFile),
			card.Tags(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatAudioField formats the audio file reference for Anki: [sound:file.mp3]
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
	}
	return
}
