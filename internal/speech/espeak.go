package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Binary    string // espeak-ng executable
	Speed     int    // words per minute (default: 150)
	Pitch     int    // 0 to 99 (default: 50)
	Amplitude int    // 0 to 200 (default: 100)
	WordGap   int    // gap between words in 10ms units
}

// DefaultESpeakConfig returns the default espeak-ng settings
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Binary:    "espeak-ng",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
	}
}

// espeakVoices maps language codes to espeak-ng voice names where they differ
var espeakVoices = map[string]string{
	"zh": "cmn",
	"no": "nb",
	"tl": "fil",
}

// espeakLanguages lists the codes espeak-ng ships a voice for
var espeakLanguages = map[string]bool{
	"af": true, "am": true, "ar": true, "az": true, "be": true, "bg": true, "bn": true,
	"bs": true, "ca": true, "cs": true, "cy": true, "da": true, "de": true, "el": true,
	"en": true, "eo": true, "es": true, "et": true, "eu": true, "fa": true, "fi": true,
	"fr": true, "ga": true, "gu": true, "he": true, "hi": true, "hr": true, "ht": true,
	"hu": true, "hy": true, "id": true, "is": true, "it": true, "ja": true, "ka": true,
	"kk": true, "kn": true, "ko": true, "ku": true, "ky": true, "lb": true, "lt": true,
	"lv": true, "mi": true, "mk": true, "ml": true, "mr": true, "ms": true, "mt": true,
	"my": true, "ne": true, "nl": true, "no": true, "pa": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "si": true, "sk": true, "sl": true, "sq": true, "sr": true,
	"sv": true, "sw": true, "ta": true, "te": true, "tl": true, "tr": true, "uk": true,
	"ur": true, "uz": true, "vi": true, "zh": true,
}

// ESpeakProvider implements Provider interface for a local espeak-ng
type ESpeakProvider struct {
	config *ESpeakConfig
}

// NewESpeakProvider creates a new espeak-ng provider. Installation is
// checked by IsAvailable, not here.
func NewESpeakProvider(config *ESpeakConfig) *ESpeakProvider {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}
	return &ESpeakProvider{config: config}
}

// GenerateAudio writes a WAV with espeak-ng and converts it with ffmpeg
// unless the output itself is a .wav file
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if !p.SupportsLanguage(lang) {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".wav") {
		return p.generateWAV(ctx, text, lang, outputFile)
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	defer os.Remove(tempWAV)

	if err := p.generateWAV(ctx, text, lang, tempWAV); err != nil {
		return err
	}
	return convertWAVToMP3(ctx, tempWAV, outputFile)
}

func (p *ESpeakProvider) generateWAV(ctx context.Context, text, lang, outputFile string) error {
	cmd := exec.CommandContext(ctx, p.config.Binary, p.args(text, lang, outputFile)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func (p *ESpeakProvider) args(text, lang, outputFile string) []string {
	args := []string{
		"-v", voiceFor(lang),
		"-s", fmt.Sprintf("%d", p.config.Speed),
		"-p", fmt.Sprintf("%d", p.config.Pitch),
		"-a", fmt.Sprintf("%d", p.config.Amplitude),
	}
	if p.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", p.config.WordGap))
	}
	return append(args, "-w", outputFile, text)
}

func voiceFor(lang string) string {
	code := normalizeLang(lang)
	if voice, ok := espeakVoices[code]; ok {
		return voice
	}
	return code
}

// convertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func convertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := exec.LookPath(p.config.Binary); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// SupportsLanguage reports whether espeak-ng ships a voice for lang
func (p *ESpeakProvider) SupportsLanguage(lang string) bool {
	return espeakLanguages[normalizeLang(lang)]
}
