package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal"
	"codeberg.org/snonux/linguasphere/internal/anki"
	"codeberg.org/snonux/linguasphere/internal/archive"
	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/language"
)

func newFlashcardsCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flashcards",
		Aliases: []string{"cards"},
		Short:   "Manage saved flashcards",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved flashcards with their index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			cards, err := app.Session.ListFlashcards()
			if err != nil {
				return err
			}
			printFlashcards(cmd.OutOrStdout(), cards)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete INDEX",
		Short: "Delete the flashcard at INDEX (0-based, see list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number: %q", args[0])
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.DeleteFlashcard(index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted flashcard %d\n", index)
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Export saved flashcards for Anki (apkg or csv)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}
	export.Flags().StringVar(&flags.ExportFormat, "format", flags.ExportFormat, "Export format: apkg or csv")
	export.Flags().StringVarP(&flags.ExportOutput, "output", "o", "", "Output file (default linguasphere.apkg or linguasphere.csv)")
	export.Flags().StringVar(&flags.DeckName, "deck-name", "", "Deck name for APKG export")
	export.Flags().BoolVar(&flags.WithAudio, "with-audio", false, "Render the back of every card to audio and include it")
	viper.BindPFlag("anki.deck_name", export.Flags().Lookup("deck-name"))

	arch := &cobra.Command{
		Use:   "archive",
		Short: "Move the flashcard file into archive/ and start a new collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			archived, err := archive.ArchiveFlashcards(app.Store.Path())
			if err != nil {
				return fmt.Errorf("failed to archive flashcards: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flashcards archived to: %s\n", archived)
			return nil
		},
	}

	cmd.AddCommand(list, del, export, arch)
	return cmd
}

func printFlashcards(out io.Writer, cards []flashcard.Flashcard) {
	if len(cards) == 0 {
		fmt.Fprintln(out, "No flashcards saved.")
		return
	}
	for i, fc := range cards {
		fmt.Fprintf(out, "%3d. %s → %s (%s → %s)\n", i, fc.Front, fc.Back, fc.SourceLang, fc.TargetLang)
	}
}

func runExport(cmd *cobra.Command, flags *Flags) error {
	format := strings.ToLower(flags.ExportFormat)
	if format != "apkg" && format != "csv" {
		return fmt.Errorf("unknown export format: %s (use apkg or csv)", flags.ExportFormat)
	}
	output := flags.ExportOutput
	if output == "" {
		output = "linguasphere." + format
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	cards, err := app.Session.ListFlashcards()
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return errors.New("no flashcards saved, nothing to export")
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{OutputPath: output, IncludeHeaders: true})
	gen.AddFlashcards(cards)

	if flags.WithAudio {
		tmpDir, err := os.MkdirTemp("", "linguasphere_audio_*")
		if err != nil {
			return fmt.Errorf("failed to create audio directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		renderCardAudio(cmd.Context(), cmd.ErrOrStderr(), app, gen.GetCards(), tmpDir)
	}

	if format == "csv" {
		err = gen.GenerateCSV()
	} else {
		err = gen.GenerateAPKG(output, app.Config.Anki.DeckName)
	}
	if err != nil {
		return fmt.Errorf("failed to export flashcards: %w", err)
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d flashcards (%d with audio) to: %s\n", total, withAudio, output)
	return nil
}

// renderCardAudio speaks the back of each card. Cards whose audio fails are
// exported without it.
func renderCardAudio(ctx context.Context, errOut io.Writer, app *App, cards []anki.Card, dir string) {
	for i := range cards {
		card := &cards[i]
		code, ok := language.ResolveCode(card.TargetLang)
		if !ok {
			fmt.Fprintf(errOut, "Warning: no language code for %q, skipping audio of %q\n", card.TargetLang, card.Back)
			continue
		}

		cardDir := filepath.Join(dir, fmt.Sprintf("%03d_%s", i, internal.SanitizeFilename(card.Back)))
		if err := os.MkdirAll(cardDir, 0755); err != nil {
			fmt.Fprintf(errOut, "Warning: %v\n", err)
			continue
		}

		path, err := app.Session.Speak(ctx, card.Back, code, filepath.Join(cardDir, "audio.mp3"))
		if err != nil {
			fmt.Fprintf(errOut, "Warning: audio for %q failed: %v\n", card.Back, err)
			continue
		}
		card.AudioFile = path
	}
}
