package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"yt2audio/internal/movie"
	"yt2audio/internal/services"
	"yt2audio/internal/services/ytdlp"
)

type stubExecutor struct {
	lines  []string
	err    error
	create []string
	calls  int
	args   [][]string
}

func (s *stubExecutor) Run(_ context.Context, _ string, args []string, onLine func(string)) error {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	for _, path := range s.create {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			return err
		}
	}
	for _, line := range s.lines {
		onLine(line)
	}
	return s.err
}

func newClient(t *testing.T, exec ytdlp.Executor, opts ...ytdlp.Option) *ytdlp.Client {
	t.Helper()
	client, err := ytdlp.New("yt-dlp", 5, append([]ytdlp.Option{ytdlp.WithExecutor(exec)}, opts...)...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  ", 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestFetchMetadataParsesDump(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		"WARNING: something noisy",
		`{"id":"dQw4w9WgXcQ","title":"Long Talk","uploader":"","channel":"Some Channel","description":"0:00 Intro","duration":3000.4,"thumbnail":"https://i.ytimg.com/vi/x/hq.jpg"}`,
	}}
	client := newClient(t, exec)

	info, err := client.FetchMetadata(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	want := movie.Info{
		ID:           "dQw4w9WgXcQ",
		Title:        "Long Talk",
		Author:       "Some Channel",
		Description:  "0:00 Intro",
		Duration:     3000,
		ThumbnailURL: "https://i.ytimg.com/vi/x/hq.jpg",
	}
	if info != want {
		t.Fatalf("unexpected info: %+v", info)
	}
	args := exec.args[0]
	if !slices.Contains(args, "--dump-json") || args[len(args)-1] != ytdlp.WatchURL("dQw4w9WgXcQ") {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFetchMetadataErrors(t *testing.T) {
	client := newClient(t, &stubExecutor{err: errors.New("exit status 1")})
	if _, err := client.FetchMetadata(context.Background(), "abc"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	empty := newClient(t, &stubExecutor{})
	if _, err := empty.FetchMetadata(context.Background(), "abc"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := empty.FetchMetadata(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDownloadAudioUsesRewriteOptions(t *testing.T) {
	store := t.TempDir()
	target := filepath.Join(store, "abc.m4a")
	exec := &stubExecutor{create: []string{target}, lines: []string{target}}
	client := newClient(t, exec)

	meta := &movie.Meta{ID: "abc", Store: store, YtDLPRewriteOptions: "--extract-audio --audio-quality 96k"}
	path, err := client.DownloadAudio(context.Background(), meta)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if path != target {
		t.Fatalf("expected %s, got %s", target, path)
	}
	joined := strings.Join(exec.args[0], " ")
	if !strings.HasPrefix(joined, "--extract-audio --audio-quality 96k") {
		t.Fatalf("rewrite options not passed first: %s", joined)
	}
	if !strings.Contains(joined, filepath.Join(store, "abc.%(ext)s")) {
		t.Fatalf("output template missing: %s", joined)
	}
}

func TestDownloadAudioFallsBackToStoreScan(t *testing.T) {
	store := t.TempDir()
	target := filepath.Join(store, "abc.opus")
	client := newClient(t, &stubExecutor{create: []string{target, filepath.Join(store, "abc.jpg")}})

	path, err := client.DownloadAudio(context.Background(), &movie.Meta{ID: "abc", Store: store})
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if path != target {
		t.Fatalf("expected %s, got %s", target, path)
	}
}

func TestDownloadAudioMissingOutput(t *testing.T) {
	client := newClient(t, &stubExecutor{lines: []string{"/nowhere/abc.m4a"}})
	_, err := client.DownloadAudio(context.Background(), &movie.Meta{ID: "abc", Store: t.TempDir()})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if services.Details(err) != "Download. Audio file does not exist." {
		t.Fatalf("unexpected details %q", services.Details(err))
	}
}

func TestDownloadSubtitlesPrefersLanguageOrder(t *testing.T) {
	dir := t.TempDir()
	ru := filepath.Join(dir, "subs-abc.ru.vtt")
	en := filepath.Join(dir, "subs-abc.en.vtt")
	exec := &stubExecutor{create: []string{ru, en}}
	client := newClient(t, exec, ytdlp.WithLanguages([]string{"en", "ru"}))

	path, err := client.DownloadSubtitles(context.Background(), "abc", dir)
	if err != nil {
		t.Fatalf("DownloadSubtitles: %v", err)
	}
	if path != en {
		t.Fatalf("expected %s, got %s", en, path)
	}
	if !slices.Contains(exec.args[0], "en,ru") {
		t.Fatalf("languages not requested: %v", exec.args[0])
	}
}

func TestDownloadSubtitlesNoneAvailable(t *testing.T) {
	client := newClient(t, &stubExecutor{})
	if _, err := client.DownloadSubtitles(context.Background(), "abc", t.TempDir()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDownloadSubtitlesIgnoresStaleTrack(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "subs-abc.en.vtt")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("write stale track: %v", err)
	}
	client := newClient(t, &stubExecutor{}, ytdlp.WithLanguages([]string{"en"}))

	path, err := client.DownloadSubtitles(context.Background(), "abc", dir)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got path %q err %v", path, err)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale track still present: %v", err)
	}
}
