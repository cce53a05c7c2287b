package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/linguasphere/internal/translation"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FlashcardsPath != "flashcards.json" {
		t.Errorf("FlashcardsPath = %q", cfg.FlashcardsPath)
	}
	if cfg.Translation.Backend != translation.MyMemory {
		t.Errorf("Backend = %v, want mymemory", cfg.Translation.Backend)
	}
	gw := cfg.Translation.Gateway
	if gw.Timeout != 15*time.Second || gw.MyMemory.RequestsPerMinute != 30 {
		t.Errorf("unexpected gateway defaults %+v", gw)
	}
	if gw.Google.Engine != translation.EngineWeb || gw.Breaker.MaxFailures != 5 || gw.Breaker.OpenTimeout != 30*time.Second {
		t.Errorf("unexpected google/breaker defaults %+v", gw)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Speech.Provider != "gtts" || cfg.Speech.Output != "output.mp3" || cfg.Speech.OpenAIModel != "tts-1" {
		t.Errorf("unexpected speech defaults %+v", cfg.Speech)
	}
	if cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected server/log defaults %+v %+v", cfg.Server, cfg.Log)
	}
	if cfg.Anki.DeckName != "LinguaSphere Vocabulary" {
		t.Errorf("DeckName = %q", cfg.Anki.DeckName)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linguasphere.yaml")
	content := `
flashcards:
  path: /tmp/cards.json
translation:
  backend: Google Translate
  breaker:
    max_failures: 0
cache:
  backend: memory
  ttl: 1h
speech:
  provider: espeak
log:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FlashcardsPath != "/tmp/cards.json" {
		t.Errorf("FlashcardsPath = %q", cfg.FlashcardsPath)
	}
	if cfg.Translation.Backend != translation.Google {
		t.Errorf("Backend = %v, want google", cfg.Translation.Backend)
	}
	if cfg.Translation.Gateway.Breaker.MaxFailures != 0 {
		t.Errorf("MaxFailures = %d, want 0", cfg.Translation.Gateway.Breaker.MaxFailures)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Speech.Provider != "espeak" || cfg.Log.Format != "json" {
		t.Errorf("Speech/Log = %+v %+v", cfg.Speech, cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINGUASPHERE_TRANSLATION_BACKEND", "google")
	t.Setenv("LINGUASPHERE_SERVER_ADDR", ":9999")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	v := newViper()
	BindEnv(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Translation.Backend != translation.Google || cfg.Server.Addr != ":9999" {
		t.Errorf("env overrides not applied: %v %q", cfg.Translation.Backend, cfg.Server.Addr)
	}
	if cfg.Speech.OpenAIKey != "sk-env" {
		t.Errorf("OpenAIKey = %q", cfg.Speech.OpenAIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
	}{
		{"translation.backend", "deepl"},
		{"translation.google.engine", "bing"},
		{"translation.breaker.max_failures", -1},
		{"cache.backend", "memcached"},
		{"cache.redis_url", ""},
		{"speech.provider", "polly"},
		{"speech.fallback", "polly"},
		{"speech.openai_speed", 9.0},
		{"log.format", "xml"},
		{"flashcards.path", " "},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			if tt.key == "cache.redis_url" {
				v.Set("cache.backend", CacheRedis)
			}
			v.Set(tt.key, tt.value)

			if _, err := Load(v); err == nil {
				t.Errorf("expected error for %s=%v", tt.key, tt.value)
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	v := newViper()
	v.Set("speech.openai_key", "from-config")

	t.Setenv("OPENAI_API_KEY", "")
	if got := GetOpenAIKey(v); got != "from-config" {
		t.Errorf("GetOpenAIKey() = %q, want from-config", got)
	}

	t.Setenv("OPENAI_API_KEY", "from-env")
	if got := GetOpenAIKey(v); got != "from-env" {
		t.Errorf("GetOpenAIKey() = %q, want from-env", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("LINGUASPHERE_DOTENV_TEST=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINGUASPHERE_DOTENV_TEST", "")
	os.Unsetenv("LINGUASPHERE_DOTENV_TEST")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("LINGUASPHERE_DOTENV_TEST"); got != "loaded" {
		t.Errorf("env = %q, want loaded", got)
	}
}
