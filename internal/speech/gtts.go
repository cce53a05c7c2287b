package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultGTTSURL is Google Translate's text-to-speech endpoint
	DefaultGTTSURL = "https://translate.google.com/translate_tts"

	// gttsMaxChunk is the longest text the endpoint accepts per request
	gttsMaxChunk = 100
)

// gttsLanguages are the voices offered by translate_tts
var gttsLanguages = map[string]bool{
	"af": true, "am": true, "ar": true, "bg": true, "bn": true, "bs": true, "ca": true,
	"cs": true, "cy": true, "da": true, "de": true, "el": true, "en": true, "es": true,
	"et": true, "eu": true, "fi": true, "fr": true, "gl": true, "gu": true, "ha": true,
	"hi": true, "hr": true, "hu": true, "id": true, "is": true, "it": true, "iw": true,
	"ja": true, "jw": true, "km": true, "kn": true, "ko": true, "la": true, "lt": true,
	"lv": true, "ml": true, "mr": true, "ms": true, "my": true, "ne": true, "nl": true,
	"no": true, "pa": true, "pl": true, "pt": true, "ro": true, "ru": true, "si": true,
	"sk": true, "sq": true, "sr": true, "su": true, "sv": true, "sw": true, "ta": true,
	"te": true, "th": true, "tl": true, "tr": true, "uk": true, "ur": true, "vi": true,
	"yue": true, "zh": true, "zh-cn": true, "zh-tw": true,
}

// gttsAliases maps ISO codes to the legacy codes the endpoint expects
var gttsAliases = map[string]string{
	"he": "iw",
	"jv": "jw",
}

// GTTSProvider implements Provider on top of Google's translate_tts endpoint
type GTTSProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewGTTSProvider creates a provider. Empty arguments select the defaults.
func NewGTTSProvider(baseURL string, httpClient *http.Client) *GTTSProvider {
	if baseURL == "" {
		baseURL = DefaultGTTSURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GTTSProvider{baseURL: baseURL, httpClient: httpClient}
}

// GenerateAudio downloads the MP3 for every chunk of text and writes them
// back to back into outputFile
func (p *GTTSProvider) GenerateAudio(ctx context.Context, text, lang, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	tl, ok := p.voiceFor(lang)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	chunks := splitText(text, gttsMaxChunk)

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := p.fetch(ctx, chunk, tl, i, len(chunks))
		if err != nil {
			return err
		}
		audio.Write(data)
	}

	return writeAudioFile(outputFile, audio.Bytes())
}

func (p *GTTSProvider) fetch(ctx context.Context, chunk, tl string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", tl)
	params.Set("q", chunk)
	params.Set("total", strconv.Itoa(total))
	params.Set("idx", strconv.Itoa(idx))
	params.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate_tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translate_tts returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from translate_tts")
	}
	return data, nil
}

func (p *GTTSProvider) voiceFor(lang string) (string, bool) {
	code := normalizeLang(lang)
	if alias, ok := gttsAliases[code]; ok {
		code = alias
	}
	return code, gttsLanguages[code]
}

// Name returns the provider name
func (p *GTTSProvider) Name() string {
	return "gtts"
}

// IsAvailable always succeeds, the endpoint needs no key
func (p *GTTSProvider) IsAvailable() error {
	return nil
}

// SupportsLanguage reports whether translate_tts has a voice for lang
func (p *GTTSProvider) SupportsLanguage(lang string) bool {
	_, ok := p.voiceFor(lang)
	return ok
}

// splitText cuts text into chunks of at most max runes, breaking on
// whitespace where possible
func splitText(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)

		for len(runes) > max {
			flush()
			chunks = append(chunks, string(runes[:max]))
			runes = runes[max:]
		}

		n := len(runes)
		if currentLen > 0 && currentLen+1+n > max {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += n
	}
	flush()

	return chunks
}
