package thumbnail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"yt2audio/internal/movie"
)

func TestDownloadThumbnailWritesIntoStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webpdata"))
	}))
	defer server.Close()

	store := t.TempDir()
	meta := &movie.Meta{ID: "abc", Store: store, ThumbnailURL: server.URL + "/vi/abc/maxres.jpg"}
	path, err := NewDownloader(time.Second).DownloadThumbnail(context.Background(), meta)
	if err != nil {
		t.Fatalf("DownloadThumbnail: %v", err)
	}
	if path != filepath.Join(store, "abc-thumb.webp") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "webpdata" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
}

func TestDownloadThumbnailRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer server.Close()

	meta := &movie.Meta{ID: "abc", Store: t.TempDir(), ThumbnailURL: server.URL + "/t.jpg"}
	if _, err := NewDownloader(time.Second).DownloadThumbnail(context.Background(), meta); err != nil {
		t.Fatalf("DownloadThumbnail: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", hits.Load())
	}
}

func TestDownloadThumbnailDoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	meta := &movie.Meta{ID: "abc", Store: t.TempDir(), ThumbnailURL: server.URL}
	if _, err := NewDownloader(time.Second).DownloadThumbnail(context.Background(), meta); err == nil {
		t.Fatal("expected error for 404")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single request, got %d", hits.Load())
	}
}

func TestDownloadThumbnailWithoutURL(t *testing.T) {
	if _, err := NewDownloader(0).DownloadThumbnail(context.Background(), &movie.Meta{ID: "abc"}); err == nil {
		t.Fatal("expected error without url")
	}
}

func TestExtensionFor(t *testing.T) {
	cases := []struct {
		contentType string
		url         string
		want        string
	}{
		{contentType: "image/png", url: "https://x/y", want: ".png"},
		{contentType: "", url: "https://x/y/hq.webp?v=1", want: ".webp"},
		{contentType: "application/octet-stream", url: "https://x/y", want: ".jpg"},
	}
	for _, tc := range cases {
		if got := extensionFor(tc.contentType, tc.url); got != tc.want {
			t.Fatalf("extensionFor(%q, %q) = %q, want %q", tc.contentType, tc.url, got, tc.want)
		}
	}
}

func TestCompressProducesCover(t *testing.T) {
	source := filepath.Join(t.TempDir(), "abc-thumb.webp")
	if err := os.WriteFile(source, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	var gotArgs []string
	c := NewCompressor("", 0).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "ffmpeg" {
			t.Fatalf("unexpected binary %s", name)
		}
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("jpg"), 0o644)
	})

	path, err := c.Compress(context.Background(), source)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if path != CoverPath(source) || !strings.HasSuffix(path, "abc-thumb-cover.jpg") {
		t.Fatalf("unexpected cover path %s", path)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "scale=320:320:force_original_aspect_ratio=decrease") {
		t.Fatalf("scale filter missing: %v", gotArgs)
	}
}

func TestCompressFailures(t *testing.T) {
	c := NewCompressor("ffmpeg", 320).WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("boom")
	})
	if _, err := c.Compress(context.Background(), filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Fatal("expected error for missing source")
	}
	source := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(source, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Compress(context.Background(), source); err == nil {
		t.Fatal("expected error from ffmpeg failure")
	}
}
