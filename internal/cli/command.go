package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal"
	"codeberg.org/snonux/linguasphere/internal/config"
)

// CreateRootCommand creates and configures the root cobra command with all
// subcommands
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linguasphere",
		Short: "Translate, speak and learn vocabulary",
		Long: `linguasphere translates text between more than 80 languages, reads
translations aloud and turns them into vocabulary flashcards.

Examples:
  linguasphere translate --from english --to spanish "good morning"
  linguasphere translate --backend google --to german "bonjour" --speak
  linguasphere translate --from english --to french --batch words.txt --save
  linguasphere flashcards list
  linguasphere flashcards export --format apkg --output spanish.apkg
  linguasphere serve --addr :8080`,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newTranslateCommand(flags),
		newLanguagesCommand(flags),
		newFlashcardsCommand(flags),
		newSpeakCommand(flags),
		newServeCommand(flags),
		newModelsCommand(),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.linguasphere.yaml)")
	cmd.PersistentFlags().StringVar(&flags.FlashcardsPath, "flashcards", "", "Flashcard file (default flashcards.json)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format: console or json")

	viper.BindPFlag("flashcards.path", cmd.PersistentFlags().Lookup("flashcards"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// InitConfig initializes viper configuration: defaults, an optional .env
// file, the config file and LINGUASPHERE_* environment variables
func InitConfig(cfgFile string) {
	config.SetDefaults(viper.GetViper())

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".linguasphere")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
	}
}

// openApp loads the configuration and wires the components for a command
func openApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return newApp(cmd.Context(), cfg)
}
