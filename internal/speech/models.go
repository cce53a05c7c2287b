package speech

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ModelLister lists the OpenAI models usable for speech
type ModelLister struct {
	client *openai.Client
}

// NewModelLister creates a lister for apiKey. baseURL may be empty.
func NewModelLister(apiKey, baseURL string) (*ModelLister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or speech.openai_key in .linguasphere.yaml")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ModelLister{client: openai.NewClientWithConfig(cfg)}, nil
}

// SpeechModels returns the sorted ids of text-to-speech models
func (l *ModelLister) SpeechModels(ctx context.Context) ([]string, error) {
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var ids []string
	for _, model := range models.Models {
		if isSpeechModel(model.ID) {
			ids = append(ids, model.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func isSpeechModel(id string) bool {
	// gpt-4o-transcribe and whisper are speech-to-text
	if strings.Contains(id, "transcribe") || strings.Contains(id, "whisper") {
		return false
	}
	return strings.Contains(id, "tts")
}
