package translation

import (
	"fmt"
	"strings"
)

// AutoDetect is the source code asking the backend to detect the language
const AutoDetect = "auto"

// Backend selects one of the two supported translation services
type Backend int

const (
	// MyMemory is the public MyMemory REST API. It cannot detect languages.
	MyMemory Backend = iota
	// Google is Google Translate (web endpoint or Gemini). It can detect languages.
	Google
)

// Backends lists every backend in display order
var Backends = []Backend{MyMemory, Google}

// String returns the configuration name of the backend
func (b Backend) String() string {
	switch b {
	case MyMemory:
		return "mymemory"
	case Google:
		return "google"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// BackendNames returns the configuration names of all backends, e.g. for
// help texts
func BackendNames() string {
	names := make([]string, len(Backends))
	for i, b := range Backends {
		names[i] = b.String()
	}
	return strings.Join(names, ", ")
}

// SupportsAutoDetect reports whether the backend can infer the source language
func (b Backend) SupportsAutoDetect() bool {
	return b == Google
}

// ParseBackend converts a configuration or UI name into a Backend
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mymemory", "mymemory api", "mymemory-api":
		return MyMemory, nil
	case "google", "google translate", "google-translate":
		return Google, nil
	default:
		return 0, fmt.Errorf("unknown translation backend: %q (use %s)", s, BackendNames())
	}
}

// Request is a single translation job
type Request struct {
	Text       string
	SourceCode string // language code or AutoDetect
	TargetCode string
}

// Result is the normalized answer of any backend
type Result struct {
	TranslatedText     string `json:"translated_text"`
	DetectedSourceCode string `json:"detected_source_code"`
}

// normalize lowercases and trims the language codes and checks the request
func (r *Request) normalize() error {
	r.SourceCode = strings.ToLower(strings.TrimSpace(r.SourceCode))
	r.TargetCode = strings.ToLower(strings.TrimSpace(r.TargetCode))

	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidRequest)
	}
	if r.SourceCode == "" {
		return fmt.Errorf("%w: source language is required", ErrInvalidRequest)
	}
	if r.TargetCode == "" || r.TargetCode == AutoDetect {
		return fmt.Errorf("%w: target language is required", ErrInvalidRequest)
	}
	return nil
}
