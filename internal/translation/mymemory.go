package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// DefaultMyMemoryURL is the public MyMemory endpoint
const DefaultMyMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemoryConfig configures the MyMemory client
type MyMemoryConfig struct {
	URL               string
	Email             string // optional, sent as "de" to raise the daily quota
	RequestsPerMinute int    // 0 disables client-side throttling
}

// MyMemoryClient calls the MyMemory REST API
type MyMemoryClient struct {
	baseURL    string
	email      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type myMemoryResponse struct {
	ResponseData *struct {
		TranslatedText *string `json:"translatedText"`
	} `json:"responseData"`
	// MyMemory sends the status as a number or as a quoted number
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

// NewMyMemoryClient creates a MyMemory client. httpClient may be nil.
func NewMyMemoryClient(cfg MyMemoryConfig, httpClient *http.Client) *MyMemoryClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}

	c := &MyMemoryClient{
		baseURL:    baseURL,
		email:      cfg.Email,
		httpClient: httpClient,
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return c
}

// Name returns the backend name
func (c *MyMemoryClient) Name() string {
	return MyMemory.String()
}

// Translate sends GET ?q=<text>&langpair=<source>|<target>
func (c *MyMemoryClient) Translate(ctx context.Context, req Request) (Result, error) {
	if req.SourceCode == AutoDetect {
		return Result{}, &UnsupportedOperationError{Backend: MyMemory, Operation: "automatic source language detection"}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, c.fail("rate limiter", 0, err)
		}
	}

	params := url.Values{}
	params.Set("q", req.Text)
	params.Set("langpair", req.SourceCode+"|"+req.TargetCode)
	if c.email != "" {
		params.Set("de", c.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, c.fail("failed to create request", 0, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, c.fail("request failed", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, c.fail("failed to read response", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, c.fail(fmt.Sprintf("unexpected status: %s", truncate(string(body), 200)), resp.StatusCode, nil)
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, c.fail("malformed response body", resp.StatusCode, err)
	}

	if status := parsed.ResponseStatus.String(); status != "" && status != "200" {
		return Result{}, c.fail(fmt.Sprintf("service answered %s: %s", status, parsed.ResponseDetails), resp.StatusCode, nil)
	}

	if parsed.ResponseData == nil || parsed.ResponseData.TranslatedText == nil {
		return Result{}, c.fail("response is missing responseData.translatedText", resp.StatusCode, nil)
	}

	return Result{
		TranslatedText:     html.UnescapeString(*parsed.ResponseData.TranslatedText),
		DetectedSourceCode: req.SourceCode,
	}, nil
}

func (c *MyMemoryClient) fail(msg string, status int, cause error) error {
	return &BackendError{Backend: c.Name(), Message: msg, StatusCode: status, Cause: cause}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
