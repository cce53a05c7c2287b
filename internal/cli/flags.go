package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile        string
	FlashcardsPath string
	LogLevel       string
	LogFormat      string

	// translate
	From      string
	To        string
	Backend   string
	Speak     bool
	AudioOut  string
	Save      bool
	BatchFile string

	// languages
	ShowCodes bool

	// speak
	Lang   string
	Output string

	// flashcards export
	ExportFormat string
	ExportOutput string
	DeckName     string
	WithAudio    bool

	// serve
	Addr string
}

// NewFlags creates a new Flags instance with default values. Settings that
// also live in the config file stay empty so the config value wins unless
// the flag is given.
func NewFlags() *Flags {
	return &Flags{
		ExportFormat: "apkg",
	}
}
