package language

import (
	"sort"
	"strings"
)

// Auto is the pseudo language code asking a backend to detect the source language.
const Auto = "auto"

// Entry maps a lowercase language name to its code
type Entry struct {
	Name string
	Code string
}

// entries is kept in a fixed order; Suggest returns matches in this order.
// Several backends key on these exact codes, so do not normalize them.
var entries = []Entry{
	{"english", "en"},
	{"spanish", "es"},
	{"french", "fr"},
	{"german", "de"},
	{"italian", "it"},
	{"portuguese", "pt"},
	{"russian", "ru"},
	{"chinese", "zh"},
	{"japanese", "ja"},
	{"korean", "ko"},
	{"arabic", "ar"},
	{"afrikaans", "af"},
	{"albanian", "sq"},
	{"armenian", "hy"},
	{"azerbaijani", "az"},
	{"basque", "eu"},
	{"belarusian", "be"},
	{"bengali", "bn"},
	{"bosnian", "bs"},
	{"bulgarian", "bg"},
	{"catalan", "ca"},
	{"cebuano", "ceb"},
	{"croatian", "hr"},
	{"czech", "cs"},
	{"danish", "da"},
	{"dutch", "nl"},
	{"esperanto", "eo"},
	{"estonian", "et"},
	{"filipino", "tl"},
	{"finnish", "fi"},
	{"galician", "gl"},
	{"georgian", "ka"},
	{"greek", "el"},
	{"gujarati", "gu"},
	{"haitian creole", "ht"},
	{"hausa", "ha"},
	{"hebrew", "he"},
	{"hindi", "hi"},
	{"hmong", "hmn"},
	{"hungarian", "hu"},
	{"icelandic", "is"},
	{"igbo", "ig"},
	{"indonesian", "id"},
	{"irish", "ga"},
	{"javanese", "jv"},
	{"kannada", "kn"},
	{"kazakh", "kk"},
	{"khmer", "km"},
	{"kurdish", "ku"},
	{"kyrgyz", "ky"},
	{"lao", "lo"},
	{"latvian", "lv"},
	{"lithuanian", "lt"},
	{"luxembourgish", "lb"},
	{"macedonian", "mk"},
	{"malagasy", "mg"},
	{"malay", "ms"},
	{"malayalam", "ml"},
	{"maltese", "mt"},
	{"maori", "mi"},
	{"marathi", "mr"},
	{"mongolian", "mn"},
	{"myanmar", "my"},
	{"nepali", "ne"},
	{"norwegian", "no"},
	{"persian", "fa"},
	{"polish", "pl"},
	{"punjabi", "pa"},
	{"romanian", "ro"},
	{"serbian", "sr"},
	{"sinhala", "si"},
	{"slovak", "sk"},
	{"slovenian", "sl"},
	{"somali", "so"},
	{"sundanese", "su"},
	{"swahili", "sw"},
	{"swedish", "sv"},
	{"tajik", "tg"},
	{"tamil", "ta"},
	{"telugu", "te"},
	{"thai", "th"},
	{"turkish", "tr"},
	{"ukrainian", "uk"},
	{"urdu", "ur"},
	{"uzbek", "uz"},
	{"vietnamese", "vi"},
	{"welsh", "cy"},
	{"xhosa", "xh"},
	{"yiddish", "yi"},
	{"yoruba", "yo"},
	{"zulu", "zu"},
}

var byName = func() map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Name] = e.Code
	}
	return m
}()

// ResolveCode returns the code for a language name. The lookup ignores case
// and surrounding whitespace but otherwise requires an exact match.
func ResolveCode(name string) (string, bool) {
	code, ok := byName[normalize(name)]
	return code, ok
}

// Suggest returns every language name starting with prefix, in table order
func Suggest(prefix string) []string {
	p := strings.ToLower(prefix)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name, p) {
			out = append(out, e.Name)
		}
	}
	return out
}

// Names returns all language names sorted alphabetically
func Names() []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// NameForCode returns the first language name registered for code
func NameForCode(code string) (string, bool) {
	c := normalize(code)
	for _, e := range entries {
		if e.Code == c {
			return e.Name, true
		}
	}
	return "", false
}

// IsKnownCode reports whether code belongs to at least one table entry
func IsKnownCode(code string) bool {
	_, ok := NameForCode(code)
	return ok
}

// IsAuto reports whether name asks for source language detection.
// "auto", "auto-detect" and "autodetect" are accepted.
func IsAuto(name string) bool {
	switch normalize(name) {
	case Auto, "auto-detect", "autodetect":
		return true
	}
	return false
}

// Entries returns a copy of the table
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
