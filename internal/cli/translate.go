package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal/batch"
	"codeberg.org/snonux/linguasphere/internal/language"
	"codeberg.org/snonux/linguasphere/internal/session"
	"codeberg.org/snonux/linguasphere/internal/speech"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

func newTranslateCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text and build flashcards from it",
		Long: `Translate text from one language to another.

Languages are given by name, e.g. "english" or "chinese".
The google backend also accepts "auto-detect" as source language, which is
the default when --from is omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.From, "from", "", "Source language name (default auto-detect, google backend only)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Target language name")
	cmd.Flags().StringVar(&flags.Backend, "backend", "", "Translation backend: "+translation.BackendNames())
	cmd.Flags().BoolVar(&flags.Speak, "speak", false, "Read the translation aloud into an audio file")
	cmd.Flags().StringVar(&flags.AudioOut, "audio-out", "", "Audio file for --speak (default output.mp3)")
	cmd.Flags().BoolVar(&flags.Save, "save", false, "Save the generated flashcards")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate every line of a file")
	cmd.MarkFlagRequired("to")

	viper.BindPFlag("translation.backend", cmd.Flags().Lookup("backend"))

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string, flags *Flags) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && flags.BatchFile == "" {
		return fmt.Errorf("nothing to translate: pass text or --batch FILE")
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	backend := app.Config.Translation.Backend
	source, err := sourceLanguage(flags.From, backend)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if flags.BatchFile != "" {
		return translateBatch(ctx, out, cmd.ErrOrStderr(), app, flags, source, backend)
	}

	return translateOne(ctx, out, cmd.ErrOrStderr(), app, flags, text, source, backend, flags.AudioOut)
}

// sourceLanguage defaults to auto-detection where the backend offers it
func sourceLanguage(from string, backend translation.Backend) (string, error) {
	if strings.TrimSpace(from) != "" {
		return from, nil
	}
	if !backend.SupportsAutoDetect() {
		return "", fmt.Errorf("--from is required with the %s backend (it cannot auto-detect)", backend)
	}
	return "auto-detect", nil
}

func translateOne(ctx context.Context, out, errOut io.Writer, app *App, flags *Flags, text, source string, backend translation.Backend, audioOut string) error {
	outcome, err := app.Session.Translate(ctx, text, source, flags.To, backend)
	if err != nil {
		return err
	}

	printOutcome(out, outcome)

	if flags.Speak {
		path, err := app.Session.SpeakLast(ctx, audioOut)
		if err != nil {
			// Speech is optional, the translation stands on its own
			fmt.Fprintf(errOut, "Warning: %v\n", err)
		} else {
			fmt.Fprintf(out, "Audio saved to: %s\n", path)
		}
	}

	if flags.Save {
		err := app.Session.SavePending()
		switch {
		case errors.Is(err, session.ErrNoPendingFlashcards):
			fmt.Fprintln(out, "No flashcards to save yet.")
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Flashcards saved to: %s\n", app.Session.StorePath())
		}
	}
	return nil
}

func printOutcome(out io.Writer, o *session.Outcome) {
	fmt.Fprintf(out, "%s\n", o.Result.TranslatedText)
	if o.SourceCode == translation.AutoDetect {
		fmt.Fprintf(out, "Detected language: %s\n", o.DetectedName)
	}
	fmt.Fprintf(out, "%s → %s via %s\n", o.SourceName, o.TargetName, o.Backend)

	if len(o.Flashcards) == 0 {
		fmt.Fprintln(out, "No flashcards generated.")
		return
	}
	fmt.Fprintf(out, "Flashcards (%d):\n", len(o.Flashcards))
	for _, fc := range o.Flashcards {
		fmt.Fprintf(out, "  %s → %s\n", fc.Front, fc.Back)
	}
}

func translateBatch(ctx context.Context, out, errOut io.Writer, app *App, flags *Flags, source string, backend translation.Backend) error {
	entries, err := batch.ReadBatchFile(flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no texts found in %s", flags.BatchFile)
	}

	summary, err := batch.Run(ctx, entries, func(ctx context.Context, e batch.Entry) error {
		fmt.Fprintf(out, "\n[%d] %s\n", e.Line, e.Text)
		audioOut := ""
		if flags.Speak {
			audioOut = batchAudioPath(flags.AudioOut, e.Line)
		}
		err := translateOne(ctx, out, errOut, app, flags, e.Text, source, backend, audioOut)
		if err != nil {
			fmt.Fprintf(errOut, "Error on line %d: %v\n", e.Line, err)
		}
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTranslated %d of %d texts\n", summary.Succeeded(), summary.Processed)
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d texts failed to translate", len(summary.Failures))
	}
	return nil
}

// batchAudioPath numbers the audio file of each line so batch runs do not
// overwrite earlier output
func batchAudioPath(base string, line int) string {
	if base == "" {
		base = speech.DefaultOutput
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + strconv.Itoa(line) + ext
}

func newLanguagesCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages [prefix]",
		Short: "List supported languages or suggest names for a prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var names []string
			if len(args) == 1 {
				names = language.Suggest(args[0])
				if len(names) == 0 {
					return fmt.Errorf("no language starts with %q", args[0])
				}
			} else {
				names = language.Names()
			}

			for _, name := range names {
				if flags.ShowCodes {
					code, _ := language.ResolveCode(name)
					fmt.Fprintf(out, "%-24s %s\n", name, code)
				} else {
					fmt.Fprintln(out, name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.ShowCodes, "codes", false, "Show the language code next to each name")
	return cmd
}
