package speech

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openAILanguages are the languages OpenAI's speech models are trained on
var openAILanguages = map[string]bool{
	"af": true, "ar": true, "hy": true, "az": true, "be": true, "bs": true, "bg": true,
	"ca": true, "zh": true, "hr": true, "cs": true, "da": true, "nl": true, "en": true,
	"et": true, "fi": true, "fr": true, "gl": true, "de": true, "el": true, "he": true,
	"hi": true, "hu": true, "is": true, "id": true, "it": true, "ja": true, "kn": true,
	"kk": true, "ko": true, "lv": true, "lt": true, "mk": true, "ms": true, "mr": true,
	"mi": true, "ne": true, "no": true, "fa": true, "pl": true, "pt": true, "ro": true,
	"ru": true, "sr": true, "sk": true, "sl": true, "es": true, "sw": true, "sv": true,
	"tl": true, "ta": true, "th": true, "tr": true, "uk": true, "ur": true, "vi": true,
	"cy": true,
}

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return newOpenAIProviderWithClient(openai.NewClient(config.OpenAIKey), config), nil
}

func newOpenAIProviderWithClient(client *openai.Client, config *Config) *OpenAIProvider {
	if config.OpenAIModel == "" {
		config.OpenAIModel = "tts-1"
	}
	if config.OpenAIVoice == "" {
		config.OpenAIVoice = "alloy"
	}
	if config.OpenAISpeed == 0 {
		config.OpenAISpeed = 1.0
	}
	return &OpenAIProvider{client: client, config: config}
}

// GenerateAudio generates audio using OpenAI TTS. The voice picks up the
// language from the text; lang is only checked against the supported set.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if !p.SupportsLanguage(lang) {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: responseFormatFor(outputFile),
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: try speech.openai_model tts-1 instead of %s", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	return writeAudioFile(outputFile, data)
}

// responseFormatFor picks the audio encoding from the file extension
func responseFormatFor(outputFile string) openai.SpeechResponseFormat {
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		return openai.SpeechResponseFormatWav
	case ".opus":
		return openai.SpeechResponseFormatOpus
	case ".aac":
		return openai.SpeechResponseFormatAac
	case ".flac":
		return openai.SpeechResponseFormatFlac
	default:
		return openai.SpeechResponseFormatMp3
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks that a key is configured. It makes no API call.
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// SupportsLanguage reports whether lang is one of OpenAI's speech languages
func (p *OpenAIProvider) SupportsLanguage(lang string) bool {
	return openAILanguages[normalizeLang(lang)]
}
