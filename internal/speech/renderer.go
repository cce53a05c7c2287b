package speech

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// DefaultOutput is overwritten by every call that does not name a file
const DefaultOutput = "output.mp3"

// Renderer turns text into an audio file with one provider
type Renderer struct {
	provider      Provider
	defaultOutput string
	logger        *zap.Logger
}

// NewRenderer creates a renderer. An empty defaultOutput means DefaultOutput.
func NewRenderer(provider Provider, defaultOutput string, logger *zap.Logger) *Renderer {
	if defaultOutput == "" {
		defaultOutput = DefaultOutput
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		provider:      provider,
		defaultOutput: defaultOutput,
		logger:        logger,
	}
}

// Provider returns the provider in use
func (r *Renderer) Provider() Provider {
	return r.provider
}

// Synthesize speaks text in lang and returns the path written. Every
// failure is a *SynthesisError.
func (r *Renderer) Synthesize(ctx context.Context, text, lang, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = r.defaultOutput
	}
	lang = normalizeLang(lang)

	fail := func(msg string, cause error) (string, error) {
		return "", &SynthesisError{Provider: r.provider.Name(), Lang: lang, Message: msg, Cause: cause}
	}

	if err := ValidateText(text); err != nil {
		return fail("invalid text", err)
	}
	if lang == "" || lang == "auto" || !r.provider.SupportsLanguage(lang) {
		return fail("unsupported language", ErrUnsupportedLanguage)
	}

	if err := r.provider.GenerateAudio(ctx, text, lang, outputPath); err != nil {
		r.logger.Warn("speech synthesis failed",
			zap.String("provider", r.provider.Name()),
			zap.String("lang", lang),
			zap.Error(err))
		if errors.Is(err, ErrUnsupportedLanguage) {
			return fail("unsupported language", err)
		}
		return fail("audio generation failed", err)
	}

	r.logger.Info("speech synthesized",
		zap.String("provider", r.provider.Name()),
		zap.String("lang", lang),
		zap.String("output", outputPath))
	return outputPath, nil
}
