package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal/flashcard"
	"codeberg.org/snonux/linguasphere/internal/speech"
	"codeberg.org/snonux/linguasphere/internal/translation"
)

// EnvPrefix is prepended to every environment override, e.g.
// LINGUASPHERE_TRANSLATION_BACKEND
const EnvPrefix = "LINGUASPHERE"

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds the settings of every component
type Config struct {
	FlashcardsPath string
	Translation    TranslationConfig
	Cache          CacheConfig
	Speech         speech.Config
	Server         ServerConfig
	Log            LogConfig
	Anki           AnkiConfig
}

// TranslationConfig selects the default backend and configures both
type TranslationConfig struct {
	Backend translation.Backend
	Gateway translation.Config
}

// CacheConfig configures the optional translation cache
type CacheConfig struct {
	Backend  string
	TTL      time.Duration
	RedisURL string
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string
	Format string
}

// AnkiConfig configures flashcard export
type AnkiConfig struct {
	DeckName string
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	gw := translation.DefaultConfig()
	sp := speech.DefaultProviderConfig()

	v.SetDefault("flashcards.path", flashcard.DefaultPath)

	v.SetDefault("translation.backend", translation.MyMemory.String())
	v.SetDefault("translation.timeout", gw.Timeout)
	v.SetDefault("translation.mymemory.url", gw.MyMemory.URL)
	v.SetDefault("translation.mymemory.email", "")
	v.SetDefault("translation.mymemory.requests_per_minute", gw.MyMemory.RequestsPerMinute)
	v.SetDefault("translation.google.engine", gw.Google.Engine)
	v.SetDefault("translation.google.url", gw.Google.URL)
	v.SetDefault("translation.google.gemini_model", gw.Google.GeminiModel)
	v.SetDefault("translation.google.gemini_key", "")
	v.SetDefault("translation.breaker.max_failures", gw.Breaker.MaxFailures)
	v.SetDefault("translation.breaker.open_timeout", gw.Breaker.OpenTimeout)

	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")

	v.SetDefault("speech.provider", sp.Provider)
	v.SetDefault("speech.fallback", "")
	v.SetDefault("speech.output", sp.Output)
	v.SetDefault("speech.timeout", sp.Timeout)
	v.SetDefault("speech.gtts_url", sp.GTTSURL)
	v.SetDefault("speech.openai_key", "")
	v.SetDefault("speech.openai_model", sp.OpenAIModel)
	v.SetDefault("speech.openai_voice", sp.OpenAIVoice)
	v.SetDefault("speech.openai_speed", sp.OpenAISpeed)
	v.SetDefault("speech.espeak.speed", sp.ESpeak.Speed)
	v.SetDefault("speech.espeak.pitch", sp.ESpeak.Pitch)
	v.SetDefault("speech.espeak.amplitude", sp.ESpeak.Amplitude)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("anki.deck_name", "LinguaSphere Vocabulary")
}

// BindEnv makes every key overridable through LINGUASPHERE_* variables
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load builds a Config from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	backend, err := translation.ParseBackend(v.GetString("translation.backend"))
	if err != nil {
		return nil, err
	}

	maxFailures := v.GetInt("translation.breaker.max_failures")
	if maxFailures < 0 {
		return nil, fmt.Errorf("translation.breaker.max_failures must not be negative")
	}

	cfg := &Config{
		FlashcardsPath: v.GetString("flashcards.path"),
		Translation: TranslationConfig{
			Backend: backend,
			Gateway: translation.Config{
				Timeout: v.GetDuration("translation.timeout"),
				MyMemory: translation.MyMemoryConfig{
					URL:               v.GetString("translation.mymemory.url"),
					Email:             v.GetString("translation.mymemory.email"),
					RequestsPerMinute: v.GetInt("translation.mymemory.requests_per_minute"),
				},
				Google: translation.GoogleConfig{
					Engine:      strings.ToLower(v.GetString("translation.google.engine")),
					URL:         v.GetString("translation.google.url"),
					GeminiModel: v.GetString("translation.google.gemini_model"),
					GeminiKey:   v.GetString("translation.google.gemini_key"),
				},
				Breaker: translation.BreakerConfig{
					MaxFailures: uint32(maxFailures),
					OpenTimeout: v.GetDuration("translation.breaker.open_timeout"),
				},
			},
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(v.GetString("cache.backend")),
			TTL:      v.GetDuration("cache.ttl"),
			RedisURL: v.GetString("cache.redis_url"),
		},
		Speech: speech.Config{
			Provider:    strings.ToLower(v.GetString("speech.provider")),
			Fallback:    strings.ToLower(v.GetString("speech.fallback")),
			Output:      v.GetString("speech.output"),
			Timeout:     v.GetDuration("speech.timeout"),
			GTTSURL:     v.GetString("speech.gtts_url"),
			OpenAIKey:   GetOpenAIKey(v),
			OpenAIModel: v.GetString("speech.openai_model"),
			OpenAIVoice: v.GetString("speech.openai_voice"),
			OpenAISpeed: v.GetFloat64("speech.openai_speed"),
			ESpeak: speech.ESpeakConfig{
				Binary:    "espeak-ng",
				Speed:     v.GetInt("speech.espeak.speed"),
				Pitch:     v.GetInt("speech.espeak.pitch"),
				Amplitude: v.GetInt("speech.espeak.amplitude"),
			},
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Anki: AnkiConfig{
			DeckName: v.GetString("anki.deck_name"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.FlashcardsPath) == "" {
		return fmt.Errorf("flashcards.path must not be empty")
	}

	switch c.Translation.Gateway.Google.Engine {
	case translation.EngineWeb, translation.EngineGemini:
	default:
		return fmt.Errorf("unknown translation.google.engine: %s", c.Translation.Gateway.Google.Engine)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache.backend: %s", c.Cache.Backend)
	}

	for _, p := range []string{c.Speech.Provider, c.Speech.Fallback} {
		switch p {
		case "", "gtts", "openai", "espeak", "espeak-ng":
		default:
			return fmt.Errorf("unknown speech provider: %s", p)
		}
	}

	if c.Speech.OpenAISpeed < 0.25 || c.Speech.OpenAISpeed > 4.0 {
		return fmt.Errorf("speech.openai_speed must be between 0.25 and 4.0")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log.format: %s", c.Log.Format)
	}

	return nil
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey(v *viper.Viper) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return v.GetString("speech.openai_key")
}
