package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/snonux/linguasphere/internal/translation"
)

// MockTranslator mocks translation.Gateway
type MockTranslator struct {
	mu sync.Mutex

	// Translations maps source text to translated text
	Translations map[string]string
	// Detected is returned as the detected code for auto requests
	Detected string
	// Err, when set, is returned by every call
	Err   error
	Calls []string
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, req translation.Request, backend translation.Backend) (translation.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("%s: %s (%s->%s)", backend, req.Text, req.SourceCode, req.TargetCode))

	if m.Err != nil {
		return translation.Result{}, m.Err
	}

	if req.SourceCode == translation.AutoDetect && !backend.SupportsAutoDetect() {
		return translation.Result{}, &translation.UnsupportedOperationError{Backend: backend, Operation: "automatic source language detection"}
	}

	translated, ok := m.Translations[req.Text]
	if !ok {
		translated = fmt.Sprintf("mock translation of %s", req.Text)
	}

	detected := req.SourceCode
	if detected == translation.AutoDetect {
		detected = m.Detected
	}

	return translation.Result{TranslatedText: translated, DetectedSourceCode: detected}, nil
}

// MockSynthesizer mocks speech.Renderer. It writes a tiny fake MP3 so
// callers can serve or inspect the file.
type MockSynthesizer struct {
	mu sync.Mutex

	Dir         string
	Err         error
	Calls       []string
	DefaultPath string
}

// Synthesize mocks text to speech
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, lang, outputPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, fmt.Sprintf("%s: %s", lang, text))
	if m.Err != nil {
		return "", m.Err
	}

	if outputPath == "" {
		outputPath = m.DefaultPath
		if outputPath == "" {
			outputPath = "output.mp3"
		}
	}
	if m.Dir != "" && !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(m.Dir, outputPath)
	}

	if err := os.WriteFile(outputPath, MP3Header(), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// MP3Header returns the bytes of a minimal MP3 frame header
func MP3Header() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
