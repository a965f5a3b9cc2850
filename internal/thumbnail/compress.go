package thumbnail

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Compressor shrinks thumbnails to the size accepted as an audio cover.
type Compressor struct {
	ffmpegBinary  string
	size          int
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewCompressor returns a Compressor producing JPEGs at most size pixels on each side.
func NewCompressor(ffmpegBinary string, size int) *Compressor {
	ffmpegBinary = strings.TrimSpace(ffmpegBinary)
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if size <= 0 {
		size = 320
	}
	return &Compressor{ffmpegBinary: ffmpegBinary, size: size}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Compressor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *Compressor {
	c.commandRunner = runner
	return c
}

// Compress writes <stem>-cover.jpg next to path and returns its path.
func (c *Compressor) Compress(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("compress thumbnail: %w", err)
	}
	dest := CoverPath(path)
	if err := c.run(ctx, c.ffmpegBinary, c.buildArgs(path, dest)...); err != nil {
		return "", fmt.Errorf("compress thumbnail: %w", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return "", fmt.Errorf("compress thumbnail: missing output: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("compress thumbnail: empty output %s", dest)
	}
	return dest, nil
}

// CoverPath returns where Compress writes the cover for path.
func CoverPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-cover.jpg"
}

func (c *Compressor) buildArgs(source, dest string) []string {
	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", c.size, c.size)
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vf", scale,
		"-frames:v", "1",
		"-q:v", "4",
		dest,
	}
}

func (c *Compressor) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
