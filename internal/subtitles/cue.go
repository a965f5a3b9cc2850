package subtitles

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoCues is returned when a subtitle document contains no timed cues.
var ErrNoCues = errors.New("subtitles: no cues")

// Cue is one timed block of subtitle text. Text keeps the original line breaks.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

var (
	inlineTag    = regexp.MustCompile(`<[^>]*>`)
	entityMarkup = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ", "&#39;", "'", "&quot;", `"`)
)

// Parse reads WebVTT or SRT content. Header, NOTE, STYLE and REGION blocks
// are skipped, as are blocks without a timing line.
func Parse(raw []byte) ([]Cue, error) {
	normalized := strings.ReplaceAll(string(raw), "\r\n", "\n")
	normalized = strings.TrimPrefix(normalized, "\ufeff")
	var cues []Cue
	for _, block := range splitBlocks(normalized) {
		lines := strings.Split(block, "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}
		start, end, err := parseTiming(lines[timing])
		if err != nil {
			return nil, err
		}
		text := cueText(lines[timing+1:])
		if text == "" {
			continue
		}
		cues = append(cues, Cue{Start: start, End: end, Text: text})
	}
	if len(cues) == 0 {
		return nil, ErrNoCues
	}
	return cues, nil
}

func parseTiming(line string) (float64, float64, error) {
	left, right, _ := strings.Cut(line, "-->")
	// VTT cue settings follow the end timestamp.
	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("invalid timing %q", line)
	}
	start, err := parseTimestamp(left)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(fields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseTimestamp accepts HH:MM:SS.mmm, MM:SS.mmm and the SRT comma form.
func parseTimestamp(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if value == "" {
		return 0, errors.New("empty timestamp")
	}
	clock, fraction, _ := strings.Cut(value, ".")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var seconds int
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		seconds = seconds*60 + n
	}
	total := float64(seconds)
	if fraction != "" {
		millis, err := strconv.Atoi(fraction)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		total += float64(millis) / 1000
	}
	return total, nil
}

func cueText(lines []string) string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = entityMarkup.Replace(inlineTag.ReplaceAllString(line, ""))
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
