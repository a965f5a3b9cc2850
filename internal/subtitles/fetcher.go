package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"yt2audio/internal/logging"
	"yt2audio/internal/services"
)

// Downloader retrieves a subtitle track for a source identifier into dir.
type Downloader interface {
	DownloadSubtitles(ctx context.Context, id, dir string) (string, error)
}

// Fetcher turns downloaded subtitle tracks into plain text.
type Fetcher struct {
	downloader Downloader
	workDir    string
	logger     *slog.Logger
}

// NewFetcher returns a Fetcher downloading tracks into workDir.
func NewFetcher(downloader Downloader, workDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		workDir:    workDir,
		logger:     logging.NewComponentLogger(logger, "subtitles"),
	}
}

// FetchSubtitles downloads, parses and cleans the subtitles of id and renders
// them as text filtered by query.
func (f *Fetcher) FetchSubtitles(ctx context.Context, id, query string) (string, error) {
	path, err := f.downloader.DownloadSubtitles(ctx, id, f.workDir)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read subtitles: %w", err)
	}
	cues, err := Parse(raw)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "subtitles", "parse", "Subtitles. Track is empty.", err)
	}
	cues, stats := Clean(cues)
	logging.WithContext(ctx, f.logger).Debug("subtitles cleaned",
		logging.String("path", path),
		logging.Int("cues", len(cues)),
		logging.Int("removed_cues", stats.RemovedCues),
		logging.Int("repeated_lines", stats.RepeatedLines),
	)
	text := Render(cues, query)
	if text == "" {
		return "", services.Wrap(services.ErrNotFound, "subtitles", "filter", "Subtitles. Nothing matches the query.", nil)
	}
	return text, nil
}

// FileName is the name of the text file holding the subtitles of id.
func FileName(id string) string {
	return "subtitles-" + id + ".txt"
}

// Save writes text atomically into dir and returns the file path.
func Save(dir, id, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitles dir: %w", err)
	}
	path := filepath.Join(dir, FileName(id))
	if err := renameio.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write subtitles: %w", err)
	}
	return path, nil
}
