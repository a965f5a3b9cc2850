package subtitles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"yt2audio/internal/logging"
	"yt2audio/internal/services"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

NOTE generated automatically

00:00:01.000 --> 00:00:03.500 align:start position:0%
Hello <c.colorE5E5E5>and</c> welcome

00:00:03.500 --> 00:01:05.000 align:start position:0%
Hello and welcome
we discuss <00:00:04.100><c>the</c> Go scheduler

01:00:00.000 --> 01:00:02.000
Closing &amp; thanks
`

const sampleSRT = "1\r\n00:00:01,000 --> 00:00:02,000\r\n<i>First</i> line\r\n\r\n2\r\n00:00:03,250 --> 00:00:04,000\r\nSecond line\r\n"

func TestParseVTT(t *testing.T) {
	cues, err := Parse([]byte(sampleVTT))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Cue{
		{Start: 1, End: 3.5, Text: "Hello and welcome"},
		{Start: 3.5, End: 65, Text: "Hello and welcome\nwe discuss the Go scheduler"},
		{Start: 3600, End: 3602, Text: "Closing & thanks"},
	}
	if diff := cmp.Diff(want, cues); diff != "" {
		t.Fatalf("cues mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSRT(t *testing.T) {
	cues, err := Parse([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cues) != 2 || cues[0].Text != "First line" || cues[1].Start != 3.25 {
		t.Fatalf("unexpected cues %+v", cues)
	}
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	if _, err := Parse([]byte("WEBVTT\n\n")); !errors.Is(err, ErrNoCues) {
		t.Fatalf("expected ErrNoCues, got %v", err)
	}
	if _, err := Parse([]byte("1\nxx:yy --> 00:01.000\ntext\n")); err == nil {
		t.Fatal("expected timestamp error")
	}
}

func TestRenderPlainAndQuery(t *testing.T) {
	cues := []Cue{
		{Start: 1, Text: "Hello and welcome"},
		{Start: 65, Text: "we discuss the Go\nscheduler"},
		{Start: 3600, Text: "closing thanks"},
	}
	plain := Render(cues, "")
	if plain != "Hello and welcome\nwe discuss the Go scheduler\nclosing thanks\n" {
		t.Fatalf("unexpected plain text %q", plain)
	}
	filtered := Render(cues, "GO scheduler")
	if filtered != "1:05 we discuss the Go scheduler\n" {
		t.Fatalf("unexpected filtered text %q", filtered)
	}
}

type stubDownloader struct {
	path string
	err  error
}

func (s stubDownloader) DownloadSubtitles(context.Context, string, string) (string, error) {
	return s.path, s.err
}

func TestFetchSubtitles(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "subs-abc.en.vtt")
	if err := os.WriteFile(track, []byte(sampleVTT), 0o644); err != nil {
		t.Fatal(err)
	}
	fetcher := NewFetcher(stubDownloader{path: track}, dir, logging.NewNop())

	text, err := fetcher.FetchSubtitles(context.Background(), "abc", "")
	if err != nil {
		t.Fatalf("FetchSubtitles: %v", err)
	}
	if text != "Hello and welcome\nwe discuss the Go scheduler\nClosing & thanks\n" {
		t.Fatalf("unexpected text %q", text)
	}

	if _, err := fetcher.FetchSubtitles(context.Background(), "abc", "kubernetes"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unmatched query, got %v", err)
	}
}

func TestFetchSubtitlesPropagatesDownloadError(t *testing.T) {
	boom := errors.New("boom")
	fetcher := NewFetcher(stubDownloader{err: boom}, t.TempDir(), nil)
	if _, err := fetcher.FetchSubtitles(context.Background(), "abc", ""); !errors.Is(err, boom) {
		t.Fatalf("expected download error, got %v", err)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	path, err := Save(dir, "abc", "text\n")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "subtitles-abc.txt" {
		t.Fatalf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "text\n" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
}
