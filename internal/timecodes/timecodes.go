package timecodes

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"yt2audio/internal/scheme"
)

// ErrMalformed reports a timestamp token whose minute or second field is out of range.
var ErrMalformed = errors.New("malformed timestamp")

// linePattern matches a timestamp at the start of a line, optionally wrapped
// in brackets and followed by a separator, e.g. "1:02:03 - Intro" or "[05:10] Q&A".
var linePattern = regexp.MustCompile(`^\s*[\[(]?((?:\d{1,2}:)?\d{1,2}:\d{1,2})[\])]?\s*(?:[-–—:|]\s*)?(.*)$`)

// Entry is one chaptered line of a description.
type Entry struct {
	Seconds int
	Label   string
}

// Parse extracts timestamped lines from description in document order. Lines
// whose timestamp is out of range are skipped and returned in skipped.
func Parse(description string) (entries []Entry, skipped []string) {
	for _, line := range strings.Split(description, "\n") {
		match := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			continue
		}
		seconds, err := ParseTimestamp(match[1])
		if err != nil {
			skipped = append(skipped, strings.TrimSpace(line))
			continue
		}
		entries = append(entries, Entry{Seconds: seconds, Label: strings.TrimSpace(match[2])})
	}
	return entries, skipped
}

// ParseTimestamp converts "M:SS", "MM:SS" or "H:MM:SS" into seconds.
func ParseTimestamp(token string) (int, error) {
	fields := strings.Split(token, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	values := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
		}
		values[i] = n
	}
	// Seconds always, and minutes when hours are present, must stay below 60.
	if values[len(values)-1] >= 60 || (len(values) == 3 && values[1] >= 60) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, token)
	}
	total := 0
	for _, v := range values {
		total = total*60 + v
	}
	return total, nil
}

// Format renders seconds as H:MM:SS when at least an hour, else M:SS.
func Format(seconds int) string {
	seconds = max(seconds, 0)
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Resolve returns one timecode listing per part, aligned with parts. Each
// listing holds the description lines whose timestamp falls inside the part,
// rewritten relative to the part start. The last part also keeps a timestamp
// equal to its end. Malformed timestamp lines are dropped; ErrMalformed is
// returned only when every timestamp line is malformed.
func Resolve(parts []scheme.Part, description string) ([]string, error) {
	listings := make([]string, len(parts))
	if len(parts) == 0 || strings.TrimSpace(description) == "" {
		return listings, nil
	}
	entries, skipped := Parse(description)
	if len(entries) == 0 && len(skipped) > 0 {
		return nil, fmt.Errorf("%w: no usable line among %q", ErrMalformed, skipped)
	}
	last := len(parts) - 1
	for i, part := range parts {
		var lines []string
		for _, entry := range entries {
			inside := entry.Seconds >= part.Start && entry.Seconds < part.End()
			if i == last && entry.Seconds == part.End() {
				inside = true
			}
			if !inside {
				continue
			}
			line := Format(entry.Seconds - part.Start)
			if entry.Label != "" {
				line += " " + entry.Label
			}
			lines = append(lines, line)
		}
		listings[i] = strings.Join(lines, "\n")
	}
	return listings, nil
}
