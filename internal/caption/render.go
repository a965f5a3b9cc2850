package caption

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"yt2audio/internal/timecodes"
)

var (
	emptyBrackets = regexp.MustCompile(`[ \t]*\[[ \t]*\]`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
	spaceRuns     = regexp.MustCompile(`[ \t]{2,}`)
)

// Fields are the values substituted into a template for one part.
type Fields struct {
	Title      string
	Author     string
	MovieID    string
	Duration   int
	Additional string
	Timecodes  string
	Partition  string
}

// Render fills the template and removes artifacts that template literals
// leave around empty fields: bracket pairs with nothing inside, doubled
// spaces, trailing whitespace and runs of blank lines. Field values are
// inserted after cleanup and reach the caption unchanged.
func (t *Template) Render(f Fields) string {
	values := map[Placeholder]string{
		Title:      Capital2Lower(f.Title),
		Author:     Capital2Lower(f.Author),
		MovieID:    f.MovieID,
		Duration:   HumanDuration(f.Duration),
		Additional: strings.TrimSpace(f.Additional),
		Timecodes:  strings.TrimSpace(f.Timecodes),
		Partition:  f.Partition,
	}
	var b strings.Builder
	for _, seg := range t.segments {
		switch {
		case seg.placeholder == "":
			b.WriteString(seg.literal)
		case values[seg.placeholder] != "":
			b.WriteRune(marker(seg.placeholder))
		}
	}
	text := cleanup(b.String())
	for _, p := range Placeholders {
		text = strings.ReplaceAll(text, string(marker(p)), values[p])
	}
	return text
}

// marker returns the private-use rune standing in for p during cleanup.
func marker(p Placeholder) rune {
	return rune(0xE000 + slices.Index(Placeholders, p))
}

// PartitionLabel returns "[Part i of n]" for a 0-based index, or "" when
// there is a single part.
func PartitionLabel(index, count int) string {
	if count <= 1 {
		return ""
	}
	return fmt.Sprintf("[Part %d of %d]", index+1, count)
}

// HumanDuration renders seconds as H:MM:SS, or M:SS below one hour.
func HumanDuration(seconds int) string {
	return timecodes.Format(seconds)
}

// Capital2Lower lower-cases the first character of s and leaves the rest untouched.
func Capital2Lower(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Lower(language.Und).String(s[:size]) + s[size:]
}
