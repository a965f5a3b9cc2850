package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/renameio/v2"

	"yt2audio/internal/movie"
)

// maxThumbnailBytes caps the size of a downloaded thumbnail.
const maxThumbnailBytes = 10 << 20

// Downloader fetches thumbnails over HTTP into the movie store.
type Downloader struct {
	client   *http.Client
	attempts uint
}

// NewDownloader returns a Downloader whose requests time out after timeout.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Downloader{client: &http.Client{Timeout: timeout}, attempts: 3}
}

// WithHTTPClient replaces the HTTP client (for testing).
func (d *Downloader) WithHTTPClient(client *http.Client) *Downloader {
	if client != nil {
		d.client = client
	}
	return d
}

// DownloadThumbnail stores meta.ThumbnailURL as <id>-thumb<ext> in meta.Store
// and returns the path. Server errors are retried with exponential backoff;
// client errors are not.
func (d *Downloader) DownloadThumbnail(ctx context.Context, meta *movie.Meta) (string, error) {
	url := strings.TrimSpace(meta.ThumbnailURL)
	if url == "" {
		return "", errors.New("thumbnail: no url")
	}

	fetch := func() (fetched, error) {
		return d.fetch(ctx, url)
	}
	body, err := backoff.Retry(ctx, fetch,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(d.attempts),
	)
	if err != nil {
		return "", fmt.Errorf("thumbnail download: %w", err)
	}

	if err := os.MkdirAll(meta.Store, 0o755); err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	dest := filepath.Join(meta.Store, meta.ID+"-thumb"+body.ext)
	if err := renameio.WriteFile(dest, body.data, 0o644); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return dest, nil
}

type fetched struct {
	data []byte
	ext  string
}

func (d *Downloader) fetch(ctx context.Context, url string) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetched{}, backoff.Permanent(err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fetched{}, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fetched{}, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
	if err != nil {
		return fetched{}, err
	}
	if len(data) == 0 {
		return fetched{}, backoff.Permanent(errors.New("empty body"))
	}
	return fetched{data: data, ext: extensionFor(resp.Header.Get("Content-Type"), url)}, nil
}

func extensionFor(contentType, url string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/webp":
			return ".webp"
		}
	}
	if idx := strings.IndexAny(url, "?#"); idx >= 0 {
		url = url[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(url)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	}
	return ".jpg"
}
