package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"yt2audio/internal/payload"
	"yt2audio/internal/scheme"
)

// Splitter cuts an audio file into the parts of a scheme with ffmpeg stream copy.
type Splitter struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// New returns a Splitter using ffmpegBinary, defaulting to "ffmpeg".
func New(ffmpegBinary string) *Splitter {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Splitter{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Splitter) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *Splitter {
	s.commandRunner = runner
	return s
}

// Split writes one file per part into outDir. A single-part scheme reuses the
// source file untouched. Parts are cut sequentially; the first failure aborts.
func (s *Splitter) Split(ctx context.Context, source string, total int, outDir string, parts []scheme.Part) ([]payload.Segment, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("split source: %w", err)
	}
	if len(parts) == 0 {
		return nil, errors.New("split: empty scheme")
	}
	if len(parts) == 1 {
		return []payload.Segment{{Path: source, Duration: total}}, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create split dir: %w", err)
	}

	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(filepath.Base(source), ext)
	segments := make([]payload.Segment, 0, len(parts))
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dest := filepath.Join(outDir, PartFileName(stem, ext, part.Index))
		if err := s.run(ctx, s.ffmpegBinary, BuildArgs(source, part, dest)...); err != nil {
			return nil, fmt.Errorf("split part %d: %w", part.Index+1, err)
		}
		if _, err := os.Stat(dest); err != nil {
			return nil, fmt.Errorf("split part %d: missing output: %w", part.Index+1, err)
		}
		segments = append(segments, payload.Segment{Path: dest, Duration: part.Duration})
	}
	return segments, nil
}

// PartFileName returns the on-disk name of the part with the given 0-based index.
func PartFileName(stem, ext string, index int) string {
	return fmt.Sprintf("%s-p%02d%s", stem, index+1, ext)
}

// BuildArgs returns the ffmpeg arguments that copy part out of source into dest.
func BuildArgs(source string, part scheme.Part, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", strconv.Itoa(part.Start),
		"-t", strconv.Itoa(part.Duration),
		"-i", source,
		"-vn",
		"-map", "0:a:0",
		"-c", "copy",
		dest,
	}
}

func (s *Splitter) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
