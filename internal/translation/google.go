package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultGoogleURL is the keyless Google Translate web endpoint
	DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

	// EngineWeb uses the Google Translate web endpoint
	EngineWeb = "web"
	// EngineGemini uses a Gemini model through the genai SDK
	EngineGemini = "gemini"
)

// GoogleConfig configures the Google backend
type GoogleConfig struct {
	Engine      string // EngineWeb or EngineGemini
	URL         string
	GeminiModel string
	GeminiKey   string
}

// googleEngine is one way of reaching Google's translation models
type googleEngine interface {
	translate(ctx context.Context, text, source, target string) (Result, error)
	name() string
}

// GoogleClient translates with source-language auto-detection
type GoogleClient struct {
	engine googleEngine
}

// NewGoogleClient creates a Google client for the configured engine
func NewGoogleClient(ctx context.Context, cfg GoogleConfig, httpClient *http.Client) (*GoogleClient, error) {
	switch cfg.Engine {
	case "", EngineWeb:
		return &GoogleClient{engine: newWebEngine(cfg.URL, httpClient)}, nil
	case EngineGemini:
		engine, err := newGeminiEngine(ctx, cfg.GeminiKey, cfg.GeminiModel, httpClient)
		if err != nil {
			return nil, err
		}
		return &GoogleClient{engine: engine}, nil
	default:
		return nil, fmt.Errorf("unknown google engine: %s", cfg.Engine)
	}
}

// Name returns the backend name
func (c *GoogleClient) Name() string {
	return Google.String()
}

// Engine returns the name of the engine in use
func (c *GoogleClient) Engine() string {
	return c.engine.name()
}

// Translate blocks until the engine returns. The detected source code
// comes from the service, not from the request.
func (c *GoogleClient) Translate(ctx context.Context, req Request) (Result, error) {
	res, err := c.engine.translate(ctx, req.Text, req.SourceCode, req.TargetCode)
	if err != nil {
		if IsBackendError(err) {
			return Result{}, err
		}
		return Result{}, &BackendError{Backend: c.Name(), Message: c.engine.name() + " engine failed", Cause: err}
	}
	return res, nil
}

// webEngine talks to translate_a/single with client=gtx
type webEngine struct {
	baseURL    string
	httpClient *http.Client
}

func newWebEngine(baseURL string, httpClient *http.Client) *webEngine {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &webEngine{baseURL: baseURL, httpClient: httpClient}
}

func (e *webEngine) name() string {
	return EngineWeb
}

func (e *webEngine) translate(ctx context.Context, text, source, target string) (Result, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, e.fail("failed to create request", 0, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Result{}, e.fail("request failed", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, e.fail("failed to read response", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, e.fail(fmt.Sprintf("unexpected status: %s", truncate(string(body), 200)), resp.StatusCode, nil)
	}

	translated, detected, err := parseWebResponse(body)
	if err != nil {
		return Result{}, e.fail("malformed response body", resp.StatusCode, err)
	}

	if detected == "" {
		if source == AutoDetect {
			return Result{}, e.fail("response did not include a detected language", resp.StatusCode, nil)
		}
		detected = source
	}

	return Result{TranslatedText: translated, DetectedSourceCode: detected}, nil
}

func (e *webEngine) fail(msg string, status int, cause error) error {
	return &BackendError{Backend: Google.String(), Message: msg, StatusCode: status, Cause: cause}
}

// parseWebResponse reads the nested array answer:
//
//	[[["hola","hello",...],["mundo","world",...]],null,"en",...]
func parseWebResponse(body []byte) (string, string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", "", err
	}
	if len(top) == 0 {
		return "", "", errors.New("empty response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", "", fmt.Errorf("unexpected segment list: %w", err)
	}
	if len(segments) == 0 {
		return "", "", errors.New("no translated segments")
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part *string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			return "", "", fmt.Errorf("unexpected segment: %w", err)
		}
		if part != nil {
			sb.WriteString(*part)
		}
	}

	var detected string
	if len(top) > 2 {
		// null is fine here, it leaves detected empty
		if err := json.Unmarshal(top[2], &detected); err != nil {
			return "", "", fmt.Errorf("unexpected detected language: %w", err)
		}
	}

	return sb.String(), detected, nil
}
