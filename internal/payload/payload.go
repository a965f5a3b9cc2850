package payload

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"yt2audio/internal/config"
	"yt2audio/internal/textutil"
)

// TruncationMarker ends every caption cut to fit the size limit.
const TruncationMarker = "\n..."

// markerReserve is how many characters are dropped beyond the limit to make room for the marker.
const markerReserve = 8

// Segment is one split audio file.
type Segment struct {
	Path     string `json:"path"`
	Duration int    `json:"duration"`
}

// Payload is one ready-to-deliver audio part.
type Payload struct {
	ChatID           int64  `json:"chat_id"`
	ReplyToMessageID *int64 `json:"reply_to_message_id"`
	AudioPath        string `json:"audio_path"`
	AudioFilename    string `json:"audio_filename"`
	Duration         int    `json:"duration"`
	ThumbnailPath    string `json:"thumbnail_path,omitempty"`
	Caption          string `json:"caption"`
}

// Input carries everything Assemble zips together. Captions is aligned with Segments.
type Input struct {
	Segments         []Segment
	Captions         []string
	ThumbnailPath    string
	Title            string
	MovieID          string
	ChatID           int64
	ReplyToMessageID int64
}

// Assembler builds payloads under the caption size limit from the limits table.
type Assembler struct {
	Limits config.Limits
}

// NewAssembler returns an assembler bound to limits.
func NewAssembler(limits config.Limits) Assembler {
	return Assembler{Limits: limits}
}

// Assemble returns one payload per segment, in order. Only the first payload
// carries the reply-to reference.
func (a Assembler) Assemble(in Input) ([]Payload, error) {
	if len(in.Captions) != len(in.Segments) {
		return nil, fmt.Errorf("assemble: %d captions for %d segments", len(in.Captions), len(in.Segments))
	}
	count := len(in.Segments)
	payloads := make([]Payload, 0, count)
	for i, seg := range in.Segments {
		p := Payload{
			ChatID:        in.ChatID,
			AudioPath:     seg.Path,
			AudioFilename: FileName(in.Title, in.MovieID, seg.Path, i, count),
			Duration:      seg.Duration,
			ThumbnailPath: in.ThumbnailPath,
			Caption:       Truncate(in.Captions[i], a.Limits.CaptionMaxLength),
		}
		if i == 0 {
			replyTo := in.ReplyToMessageID
			p.ReplyToMessageID = &replyTo
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// CanonicalName derives the delivered file name from the title, falling back
// to the movie ID, and keeps the extension of the audio file.
func CanonicalName(title, movieID, audioPath string) string {
	base := textutil.SanitizeFileName(title)
	if base == "" {
		base = textutil.SanitizeFileName(movieID)
	}
	if base == "" {
		base = "audio"
	}
	return base + strings.ToLower(filepath.Ext(audioPath))
}

// FileName returns the canonical name, prefixed with "p{i}_of{N} " when
// there is more than one part. index is 0-based.
func FileName(title, movieID, audioPath string, index, count int) string {
	name := CanonicalName(title, movieID, audioPath)
	if count <= 1 {
		return name
	}
	return fmt.Sprintf("p%d_of%d %s", index+1, count, name)
}

// Truncate cuts caption to limit-8 characters plus TruncationMarker when it
// is longer than limit characters. A non-positive limit disables truncation.
func Truncate(caption string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(caption) <= limit {
		return caption
	}
	keep := max(limit-markerReserve, 0)
	runes := []rune(caption)
	return string(runes[:keep]) + TruncationMarker
}
