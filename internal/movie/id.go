package movie

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ErrInvalidID reports input that is neither a video ID nor a supported URL.
var ErrInvalidID = errors.New("invalid movie id")

// ParseID extracts the 11 character video ID from a bare ID or a watch,
// shorts, embed, live or youtu.be URL.
func ParseID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if idPattern.MatchString(raw) {
		return raw, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) == 2 {
			switch segments[0] {
			case "shorts", "embed", "live", "v":
				candidate = segments[1]
			}
		}
	}
	if !idPattern.MatchString(candidate) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return candidate, nil
}

func firstSegment(path string) string {
	path = strings.Trim(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		return path[:idx]
	}
	return path
}
