package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// geminiEngine asks a Gemini model for a translation plus the detected language
type geminiEngine struct {
	model    string
	generate func(ctx context.Context, prompt string) (string, error)
}

type geminiAnswer struct {
	Translation    string `json:"translation"`
	SourceLanguage string `json:"source_language"`
}

func newGeminiEngine(ctx context.Context, apiKey, model string, httpClient *http.Client) (*geminiEngine, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("Gemini API key not found")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	}

	return &geminiEngine{
		model: model,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
	}, nil
}

func (e *geminiEngine) name() string {
	return EngineGemini
}

func (e *geminiEngine) translate(ctx context.Context, text, source, target string) (Result, error) {
	raw, err := e.generate(ctx, geminiPrompt(text, source, target))
	if err != nil {
		return Result{}, &BackendError{Backend: Google.String(), Message: "Gemini API error", Cause: err}
	}

	var answer geminiAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &answer); err != nil {
		return Result{}, &BackendError{Backend: Google.String(), Message: "malformed Gemini answer", Cause: err}
	}
	if answer.Translation == "" {
		return Result{}, &BackendError{Backend: Google.String(), Message: "Gemini answer has no translation"}
	}

	detected := strings.ToLower(strings.TrimSpace(answer.SourceLanguage))
	if source != AutoDetect {
		detected = source
	}
	if detected == "" {
		return Result{}, &BackendError{Backend: Google.String(), Message: "Gemini answer has no source language"}
	}

	return Result{TranslatedText: answer.Translation, DetectedSourceCode: detected}, nil
}

func geminiPrompt(text, source, target string) string {
	from := fmt.Sprintf("from the language with ISO 639-1 code %q", source)
	if source == AutoDetect {
		from = "from its detected language"
	}
	return fmt.Sprintf(`Translate the text below %s into the language with ISO 639-1 code %q.
Respond with a JSON object with exactly two keys:
"translation": the translated text, nothing else,
"source_language": the ISO 639-1 code of the original text.

Text:
%s`, from, target, text)
}
