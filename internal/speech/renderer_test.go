package speech

import (
	"context"
	"errors"
	"testing"
)

func TestRenderer_DefaultOutput(t *testing.T) {
	provider := &mockProvider{name: "mock"}
	r := NewRenderer(provider, "", nil)

	path, err := r.Synthesize(context.Background(), "hello", "en", "")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if path != DefaultOutput || provider.lastFile != DefaultOutput {
		t.Errorf("path = %q, provider wrote %q; want %q", path, provider.lastFile, DefaultOutput)
	}

	path, _ = r.Synthesize(context.Background(), "hello", "en", "custom.mp3")
	if path != "custom.mp3" {
		t.Errorf("path = %q, want custom.mp3", path)
	}
}

func TestRenderer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		lang     string
		genErr   error
		wantMsg  string
		wantIs   error
		wantCall bool
	}{
		{name: "empty text", text: " ", lang: "en", wantMsg: "invalid text", wantIs: ErrNoSpeakableText},
		{name: "unsupported language", text: "hi", lang: "xx", wantMsg: "unsupported language", wantIs: ErrUnsupportedLanguage},
		{name: "auto", text: "hi", lang: "auto", wantMsg: "unsupported language", wantIs: ErrUnsupportedLanguage},
		{name: "provider failure", text: "hi", lang: "en", genErr: errors.New("disk full"), wantMsg: "audio generation failed", wantCall: true},
		{name: "provider rejects language", text: "hi", lang: "en", genErr: ErrUnsupportedLanguage, wantMsg: "unsupported language", wantIs: ErrUnsupportedLanguage, wantCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{name: "mock", langs: map[string]bool{"en": true}, generateErr: tt.genErr}
			r := NewRenderer(provider, "", nil)

			_, err := r.Synthesize(context.Background(), tt.text, tt.lang, "")

			var se *SynthesisError
			if !errors.As(err, &se) {
				t.Fatalf("expected SynthesisError, got %v", err)
			}
			if se.Message != tt.wantMsg || se.Provider != "mock" {
				t.Errorf("unexpected error %+v", se)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected errors.Is(%v)", tt.wantIs)
			}
			if (provider.generateCalls > 0) != tt.wantCall {
				t.Errorf("generateCalls = %d, wantCall %v", provider.generateCalls, tt.wantCall)
			}
		})
	}
}

func TestRenderer_NormalizesLanguage(t *testing.T) {
	provider := &mockProvider{name: "mock", langs: map[string]bool{"fr": true}}
	r := NewRenderer(provider, "out.mp3", nil)

	if _, err := r.Synthesize(context.Background(), "bonjour", " FR ", ""); err != nil {
		t.Errorf("Synthesize() error = %v", err)
	}
	if r.Provider() != provider {
		t.Error("Provider() should return the wrapped provider")
	}
}
