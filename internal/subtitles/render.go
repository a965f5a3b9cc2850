package subtitles

import (
	"strings"

	"yt2audio/internal/textutil"
	"yt2audio/internal/timecodes"
)

// Render returns the plain text of cues, one cue per line. With a non-empty
// query only cues matching every query token are kept, each prefixed by its
// start time.
func Render(cues []Cue, query string) string {
	query = strings.TrimSpace(query)
	var b strings.Builder
	for _, cue := range cues {
		text := strings.ReplaceAll(cue.Text, "\n", " ")
		if query != "" {
			if !textutil.MatchesQuery(text, query) {
				continue
			}
			b.WriteString(timecodes.Format(int(cue.Start)))
			b.WriteByte(' ')
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}
