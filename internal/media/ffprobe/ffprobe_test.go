package ffprobe

import (
	"context"
	"errors"
	"math"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "tags": {"language": "eng", "handler_name": "SoundHandler"}}
  ],
  "format": {
    "filename": "/store/abc.m4a",
    "nb_streams": 1,
    "duration": "3000.021",
    "bit_rate": "129000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "tags": {"title": "Talk", "ARTIST": "Speaker", "comment": "0:00 Intro\n5:30 Setup"}
  }
}`

func TestReadTagsMergesAndExposesDescription(t *testing.T) {
	var gotArgs []string
	p := New("ffprobe").WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		return []byte(sampleJSON), nil
	})

	tags, err := p.ReadTags(context.Background(), "/store/abc.m4a")
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "/store/abc.m4a" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("path not passed after --: %v", gotArgs)
	}
	if tags["artist"] != "Speaker" {
		t.Fatalf("expected lower-cased keys, got %v", tags)
	}
	if tags["language"] != "eng" {
		t.Fatalf("expected stream tags merged, got %v", tags)
	}
	if tags[DescriptionTag] != "0:00 Intro\n5:30 Setup" {
		t.Fatalf("unexpected description %q", tags[DescriptionTag])
	}
}

func TestReadTagsWithoutDescription(t *testing.T) {
	p := New("").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"format": {"tags": {"title": "x"}}}`), nil
	})
	tags, err := p.ReadTags(context.Background(), "/a.m4a")
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if _, ok := tags[DescriptionTag]; ok {
		t.Fatalf("unexpected description in %v", tags)
	}
}

func TestInspectErrors(t *testing.T) {
	p := New("ffprobe").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("No such file"), errors.New("exit status 1")
	})
	if _, err := p.Inspect(context.Background(), "/missing.m4a"); err == nil {
		t.Fatal("expected error from failing runner")
	}
	if _, err := p.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
	bad := New("ffprobe").WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	})
	if _, err := bad.Inspect(context.Background(), "/a.m4a"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video"}, {CodecType: "audio"}, {CodecType: "audio"}},
		Format:  Format{Duration: "123.45", BitRate: "32000"},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}

	invalid := Result{Format: Format{Duration: "bad", BitRate: "nope"}}
	if !math.IsNaN(invalid.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", invalid.DurationSeconds())
	}
	if invalid.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", invalid.BitRate())
	}
}
