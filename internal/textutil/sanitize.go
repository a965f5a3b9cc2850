package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// maxFileNameBytes keeps generated names below common filesystem limits once a
// part prefix and extension are added.
const maxFileNameBytes = 200

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Input is NFC-normalized and control characters become spaces; slashes,
// backslashes, colons, and asterisks become dashes; other unsafe characters
// are removed. The result is trimmed and capped at a safe byte length without
// splitting a rune.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	chain := transform.Chain(norm.NFC, runes.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}))
	if normalized, _, err := transform.String(chain, name); err == nil {
		name = normalized
	}
	name = strings.Join(strings.Fields(fileNameReplacer.Replace(name)), " ")
	return truncateBytes(name, maxFileNameBytes)
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

func truncateBytes(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := 0
	for i := range value {
		if i > limit {
			break
		}
		cut = i
	}
	return strings.TrimSpace(value[:cut])
}
