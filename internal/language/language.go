package language

import (
	"strings"

	"golang.org/x/text/language"
)

// words maps English language names, as people tend to write them in config
// files, to ISO 639-1 codes.
var words = map[string]string{
	"english":    "en",
	"russian":    "ru",
	"ukrainian":  "uk",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"arabic":     "ar",
	"hindi":      "hi",
	"polish":     "pl",
	"turkish":    "tr",
}

// Normalize maps a language code, BCP 47 tag or English language name to its
// ISO 639-1 code, falling back to the ISO 639-2 code when no two-letter form
// exists. Input that is not a language (yt-dlp patterns such as "en.*" or
// "all") is returned lowercased and otherwise unchanged.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	if code, ok := words[value]; ok {
		return code
	}
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return value
	}
	return base.String()
}

// NormalizeList normalizes languages and drops blanks and duplicates,
// preserving the first occurrence order.
func NormalizeList(languages []string) []string {
	out := make([]string, 0, len(languages))
	seen := make(map[string]struct{}, len(languages))
	for _, lang := range languages {
		code := Normalize(lang)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
