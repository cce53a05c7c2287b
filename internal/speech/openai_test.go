package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	return newOpenAIProviderWithClient(openai.NewClientWithConfig(cfg), &Config{OpenAIKey: "test-key"})
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(&Config{}); err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("expected missing key error, got %v", err)
	}

	provider, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Name() = %v, want openai", provider.Name())
	}
}

func TestOpenAIProvider_GenerateAudio(t *testing.T) {
	var body map[string]interface{}
	provider := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF"))
	})

	output := filepath.Join(t.TempDir(), "hello.wav")
	if err := provider.GenerateAudio(context.Background(), "  hallo welt ", "de", output); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	data, _ := os.ReadFile(output)
	if string(data) != "RIFF" {
		t.Errorf("audio = %q", data)
	}

	want := map[string]interface{}{
		"model":           "tts-1",
		"voice":           "alloy",
		"input":           "hallo welt",
		"response_format": "wav",
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("request %s = %v, want %v", k, body[k], v)
		}
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	provider := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})
	output := filepath.Join(t.TempDir(), "out.mp3")

	err := provider.GenerateAudio(context.Background(), "hello", "en", output)
	if err == nil || !strings.Contains(err.Error(), "OpenAI TTS API error") {
		t.Errorf("expected API error, got %v", err)
	}

	if err := provider.GenerateAudio(context.Background(), "hello", "yo", output); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestOpenAIProvider_EmptyAudio(t *testing.T) {
	provider := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	err := provider.GenerateAudio(context.Background(), "hello", "en", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil || !strings.Contains(err.Error(), "no audio data") {
		t.Errorf("expected empty audio error, got %v", err)
	}
}

func TestResponseFormatFor(t *testing.T) {
	tests := map[string]openai.SpeechResponseFormat{
		"a.mp3":  openai.SpeechResponseFormatMp3,
		"a.WAV":  openai.SpeechResponseFormatWav,
		"a.opus": openai.SpeechResponseFormatOpus,
		"a.aac":  openai.SpeechResponseFormatAac,
		"a.flac": openai.SpeechResponseFormatFlac,
		"a":      openai.SpeechResponseFormatMp3,
	}
	for file, want := range tests {
		if got := responseFormatFor(file); got != want {
			t.Errorf("responseFormatFor(%q) = %v, want %v", file, got, want)
		}
	}
}

func TestOpenAIProviderIsAvailable(t *testing.T) {
	p := &OpenAIProvider{config: &Config{}}
	if p.IsAvailable() == nil {
		t.Error("expected error without key")
	}
	p.config.OpenAIKey = "k"
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() error = %v", err)
	}
}
