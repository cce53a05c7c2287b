package speech

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio speaks text in lang and saves the audio to outputFile
	GenerateAudio(ctx context.Context, text, lang, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error

	// SupportsLanguage reports whether the provider has a voice for lang
	SupportsLanguage(lang string) bool
}

// Config holds configuration for every provider
type Config struct {
	Provider string // "gtts", "openai" or "espeak"
	Fallback string // optional second provider, same names
	Output   string // default output file
	Timeout  time.Duration

	GTTSURL string

	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "echo", "fable", "onyx", "nova", "shimmer", ...
	OpenAISpeed float64 // 0.25 to 4.0

	ESpeak ESpeakConfig
}

// DefaultProviderConfig returns the default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "gtts",
		Output:      DefaultOutput,
		Timeout:     30 * time.Second,
		GTTSURL:     DefaultGTTSURL,
		OpenAIModel: "tts-1",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
		ESpeak:      *DefaultESpeakConfig(),
	}
}

// NewProvider creates the configured provider, wrapped with its fallback if one is set
func NewProvider(config *Config, logger *zap.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newNamedProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newNamedProvider(config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}

	return NewProviderWithFallback(primary, fallback, logger), nil
}

func newNamedProvider(name string, config *Config) (Provider, error) {
	httpClient := &http.Client{Timeout: config.Timeout}

	switch name {
	case "", "gtts":
		return NewGTTSProvider(config.GTTSURL, httpClient), nil
	case "openai":
		if config.OpenAIKey == "" {
			config.OpenAIKey = os.Getenv("OPENAI_API_KEY")
		}
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "espeak", "espeak-ng":
		cfg := config.ESpeak
		return NewESpeakProvider(&cfg), nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GenerateAudio tries the primary provider first. A language the primary
// lacks goes straight to the fallback.
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if !p.primary.SupportsLanguage(lang) {
		return p.fallback.GenerateAudio(ctx, text, lang, outputFile)
	}

	err := p.primary.GenerateAudio(ctx, text, lang, outputFile)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.logger.Warn("primary speech provider failed, falling back",
			zap.String("primary", p.primary.Name()),
			zap.String("fallback", p.fallback.Name()),
			zap.Error(err))

		return p.fallback.GenerateAudio(ctx, text, lang, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// SupportsLanguage reports whether either provider can speak lang
func (p *ProviderWithFallback) SupportsLanguage(lang string) bool {
	return p.primary.SupportsLanguage(lang) || p.fallback.SupportsLanguage(lang)
}
