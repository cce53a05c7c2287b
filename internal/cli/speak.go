package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal/config"
	"codeberg.org/snonux/linguasphere/internal/language"
	"codeberg.org/snonux/linguasphere/internal/speech"
)

func newSpeakCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speak TEXT...",
		Short: "Read text aloud into an audio file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := speechLanguage(flags.Lang)
			if err != nil {
				return err
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			path, err := app.Session.Speak(cmd.Context(), strings.Join(args, " "), code, flags.Output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audio saved to: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.Lang, "lang", "", "Language name or code of the text")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Audio file (default output.mp3)")
	cmd.MarkFlagRequired("lang")
	return cmd
}

// speechLanguage accepts a language name or a code from the registry
func speechLanguage(lang string) (string, error) {
	if code, ok := language.ResolveCode(lang); ok {
		return code, nil
	}
	code := strings.ToLower(strings.TrimSpace(lang))
	if language.IsKnownCode(code) {
		return code, nil
	}
	return "", fmt.Errorf("unknown language: %s", lang)
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "speech-models",
		Short: "List the OpenAI text-to-speech models available for the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, err := speech.NewModelLister(config.GetOpenAIKey(viper.GetViper()), "")
			if err != nil {
				return err
			}
			models, err := lister.SpeechModels(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintln(out, "No text-to-speech models found")
				return nil
			}
			for _, model := range models {
				fmt.Fprintf(out, "  %s\n", model)
			}
			return nil
		},
	}
}
