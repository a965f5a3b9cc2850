package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"yt2audio/internal/movie"
	"yt2audio/internal/services"
)

// WatchURL is the canonical page for a source identifier.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// audioExtensions are the container extensions yt-dlp leaves behind after audio extraction.
var audioExtensions = []string{".m4a", ".mp3", ".opus", ".ogg", ".aac", ".webm", ".flac", ".wav", ".mka"}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLanguages sets the subtitle languages requested, in preference order.
func WithLanguages(languages []string) Option {
	return func(c *Client) {
		if len(languages) > 0 {
			c.languages = append([]string(nil), languages...)
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary          string
	metadataTimeout time.Duration
	languages       []string
	exec            Executor
}

// New constructs a yt-dlp client. metadataTimeoutSeconds bounds --dump-json
// calls; zero disables the bound.
func New(binary string, metadataTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:          binary,
		metadataTimeout: time.Duration(metadataTimeoutSeconds) * time.Second,
		languages:       []string{"en"},
		exec:            commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type dumpInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Channel     string  `json:"channel"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
}

// FetchMetadata returns the descriptive metadata of id without downloading media.
func (c *Client) FetchMetadata(ctx context.Context, id string) (movie.Info, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return movie.Info{}, services.Wrap(services.ErrValidation, "metadata", "fetch", "movie id required", nil)
	}
	if c.metadataTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.metadataTimeout)
		defer cancel()
	}

	var document string
	args := []string{"--dump-json", "--skip-download", "--no-playlist", "--no-warnings", "--", WatchURL(id)}
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if document == "" && strings.HasPrefix(strings.TrimSpace(line), "{") {
			document = line
		}
	})
	if err != nil {
		return movie.Info{}, services.Wrap(services.ErrExternalTool, "metadata", "yt-dlp dump-json", "Metadata. Unable to read source info.", err)
	}
	if document == "" {
		return movie.Info{}, services.Wrap(services.ErrNotFound, "metadata", "yt-dlp dump-json", "Metadata. Empty response.", nil)
	}

	var dump dumpInfo
	if err := json.Unmarshal([]byte(document), &dump); err != nil {
		return movie.Info{}, services.Wrap(services.ErrExternalTool, "metadata", "parse dump-json", "Metadata. Unreadable response.", err)
	}
	author := strings.TrimSpace(dump.Uploader)
	if author == "" {
		author = strings.TrimSpace(dump.Channel)
	}
	info := movie.Info{
		ID:           strings.TrimSpace(dump.ID),
		Title:        dump.Title,
		Author:       author,
		Description:  dump.Description,
		Duration:     int(math.Round(dump.Duration)),
		ThumbnailURL: dump.Thumbnail,
	}
	if info.ID == "" {
		info.ID = id
	}
	return info, nil
}

// DownloadAudio extracts the audio of meta.ID into meta.Store using the
// options in meta.YtDLPRewriteOptions and returns the resulting file path.
func (c *Client) DownloadAudio(ctx context.Context, meta *movie.Meta) (string, error) {
	if meta == nil || strings.TrimSpace(meta.ID) == "" {
		return "", services.Wrap(services.ErrValidation, "download", "audio", "movie id required", nil)
	}
	if err := os.MkdirAll(meta.Store, 0o755); err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}

	args := strings.Fields(meta.YtDLPRewriteOptions)
	args = append(args,
		"--no-progress",
		"--output", filepath.Join(meta.Store, meta.ID+".%(ext)s"),
		"--print", "after_move:filepath",
		"--no-simulate",
		"--", WatchURL(meta.ID),
	)

	var printed string
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if trimmed := strings.TrimSpace(line); filepath.IsAbs(trimmed) {
			printed = trimmed
		}
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "Download. yt-dlp failed.", err)
	}
	if printed != "" && fileExists(printed) {
		return printed, nil
	}
	if found := findOutput(meta.Store, meta.ID, audioExtensions); found != "" {
		return found, nil
	}
	return "", services.Wrap(services.ErrNotFound, "download", "yt-dlp", "Download. Audio file does not exist.", nil)
}

// DownloadSubtitles writes the best available subtitle track for id into dir
// and returns its path. Manual subtitles are preferred by yt-dlp over automatic
// ones; languages are tried in the configured order.
func (c *Client) DownloadSubtitles(ctx context.Context, id, dir string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", services.Wrap(services.ErrValidation, "subtitles", "download", "movie id required", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create subtitles dir: %w", err)
	}
	stem := "subs-" + id
	if err := removeOutputs(dir, stem); err != nil {
		return "", fmt.Errorf("clear stale subtitles: %w", err)
	}
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-format", "vtt/srt/best",
		"--sub-langs", strings.Join(c.languages, ","),
		"--no-progress",
		"--output", filepath.Join(dir, stem+".%(ext)s"),
		"--", WatchURL(id),
	}
	if err := c.exec.Run(ctx, c.binary, args, func(string) {}); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "subtitles", "yt-dlp", "Subtitles. yt-dlp failed.", err)
	}
	path := c.pickSubtitle(dir, stem)
	if path == "" {
		return "", services.Wrap(services.ErrNotFound, "subtitles", "yt-dlp", "Subtitles. No subtitles available.", nil)
	}
	return path, nil
}

func (c *Client) pickSubtitle(dir, stem string) string {
	for _, lang := range c.languages {
		for _, ext := range []string{".vtt", ".srt"} {
			candidate := filepath.Join(dir, stem+"."+lang+ext)
			if fileExists(candidate) {
				return candidate
			}
		}
	}
	return findOutput(dir, stem, []string{".vtt", ".srt"})
}

// findOutput returns the first file in dir named stem.* whose extension is in exts.
func findOutput(dir, stem string, exts []string) string {
	matches, err := filepath.Glob(filepath.Join(dir, globEscape(stem)+".*"))
	if err != nil {
		return ""
	}
	slices.Sort(matches)
	for _, match := range matches {
		if slices.Contains(exts, strings.ToLower(filepath.Ext(match))) && fileExists(match) {
			return match
		}
	}
	return ""
}

// removeOutputs deletes files in dir named stem.* left over from earlier runs.
func removeOutputs(dir, stem string) error {
	matches, err := filepath.Glob(filepath.Join(dir, globEscape(stem)+".*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func globEscape(value string) string {
	replacer := strings.NewReplacer("*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
	return replacer.Replace(value)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
