package subtitles

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bamara\.org\b`),
}

// CleanStats reports the effects of subtitle cleanup operations.
type CleanStats struct {
	RemovedCues   int
	RepeatedLines int
}

// Clean drops advertisement cues and the lines automatic captions repeat from
// the previous cue as they scroll. Cues left without text are removed.
func Clean(cues []Cue) ([]Cue, CleanStats) {
	var stats CleanStats
	cleaned := make([]Cue, 0, len(cues))
	var previous string
	for _, cue := range cues {
		if isAdvertisement(cue.Text) {
			stats.RemovedCues++
			continue
		}
		kept := make([]string, 0, 2)
		for _, line := range strings.Split(cue.Text, "\n") {
			if line == previous {
				stats.RepeatedLines++
				continue
			}
			kept = append(kept, line)
			previous = line
		}
		if len(kept) == 0 {
			stats.RemovedCues++
			continue
		}
		cue.Text = strings.Join(kept, "\n")
		cleaned = append(cleaned, cue)
	}
	return cleaned, stats
}

func splitBlocks(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n\n")
}

func isAdvertisement(text string) bool {
	payload := strings.TrimSpace(strings.ToLower(strings.ReplaceAll(text, "\n", " ")))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
