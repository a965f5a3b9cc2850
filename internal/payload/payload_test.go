package payload_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"yt2audio/internal/config"
	"yt2audio/internal/payload"
)

func segments(n int) ([]payload.Segment, []string) {
	segs := make([]payload.Segment, n)
	captions := make([]string, n)
	for i := range segs {
		segs[i] = payload.Segment{Path: fmt.Sprintf("/store/abc-p%02d.m4a", i+1), Duration: 600}
		captions[i] = fmt.Sprintf("caption %d", i)
	}
	return segs, captions
}

func TestAssembleReplyToOnlyOnFirst(t *testing.T) {
	a := payload.NewAssembler(config.DefaultLimits())
	for n := 1; n <= 5; n++ {
		segs, captions := segments(n)
		out, err := a.Assemble(payload.Input{
			Segments:         segs,
			Captions:         captions,
			Title:            "Title",
			MovieID:          "abc",
			ChatID:           7,
			ReplyToMessageID: 99,
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(out) != n {
			t.Fatalf("n=%d: got %d payloads", n, len(out))
		}
		for i, p := range out {
			if i == 0 {
				if p.ReplyToMessageID == nil || *p.ReplyToMessageID != 99 {
					t.Fatalf("n=%d: first payload reply-to = %v", n, p.ReplyToMessageID)
				}
			} else if p.ReplyToMessageID != nil {
				t.Fatalf("n=%d: payload %d carries reply-to", n, i)
			}
			if p.ChatID != 7 || p.Caption != captions[i] || p.AudioPath != segs[i].Path {
				t.Fatalf("n=%d: payload %d misaligned: %+v", n, i, p)
			}
		}
	}
}

func TestAssembleFileNames(t *testing.T) {
	a := payload.NewAssembler(config.DefaultLimits())

	segs, captions := segments(1)
	out, err := a.Assemble(payload.Input{Segments: segs, Captions: captions, Title: "My: Talk", MovieID: "abc"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if out[0].AudioFilename != "My- Talk.m4a" {
		t.Fatalf("unexpected single filename %q", out[0].AudioFilename)
	}

	segs, captions = segments(3)
	out, err = a.Assemble(payload.Input{Segments: segs, Captions: captions, Title: "My: Talk", MovieID: "abc"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for i, p := range out {
		want := fmt.Sprintf("p%d_of3 My- Talk.m4a", i+1)
		if p.AudioFilename != want {
			t.Fatalf("payload %d filename %q, want %q", i, p.AudioFilename, want)
		}
	}
}

func TestCanonicalNameFallsBackToID(t *testing.T) {
	if got := payload.CanonicalName("???", "abc", "/x/file.M4A"); got != "abc.m4a" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := payload.CanonicalName("", "", "/x/file"); got != "audio" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestAssembleRejectsMisalignedCaptions(t *testing.T) {
	segs, _ := segments(2)
	if _, err := payload.NewAssembler(config.DefaultLimits()).Assemble(payload.Input{Segments: segs, Captions: []string{"one"}}); err == nil {
		t.Fatal("expected error for misaligned captions")
	}
}

func TestAssembleKeepsThumbnailAbsent(t *testing.T) {
	segs, captions := segments(2)
	out, err := payload.NewAssembler(config.DefaultLimits()).Assemble(payload.Input{Segments: segs, Captions: captions})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, p := range out {
		if p.ThumbnailPath != "" {
			t.Fatalf("expected no thumbnail, got %q", p.ThumbnailPath)
		}
	}
}

func TestTruncateBound(t *testing.T) {
	const limit = 1023
	for _, n := range []int{0, 1, 1015, 1022, 1023, 1024, 1100, 5000} {
		for _, r := range []string{"a", "ж"} {
			caption := strings.Repeat(r, n)
			got := payload.Truncate(caption, limit)
			if utf8.RuneCountInString(got) > limit {
				t.Fatalf("n=%d rune=%s: %d characters exceeds limit", n, r, utf8.RuneCountInString(got))
			}
			if n > limit {
				if !strings.HasSuffix(got, payload.TruncationMarker) {
					t.Fatalf("n=%d: missing truncation marker", n)
				}
				if utf8.RuneCountInString(got) != limit-8+len(payload.TruncationMarker) {
					t.Fatalf("n=%d: unexpected length %d", n, utf8.RuneCountInString(got))
				}
			} else if got != caption {
				t.Fatalf("n=%d: caption altered below the limit", n)
			}
		}
	}
}

func TestAssembleTruncatesCaptions(t *testing.T) {
	limits := config.DefaultLimits()
	segs, _ := segments(1)
	out, err := payload.NewAssembler(limits).Assemble(payload.Input{Segments: segs, Captions: []string{strings.Repeat("x", 2000)}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(out[0].Caption) > limits.CaptionMaxLength || !strings.HasSuffix(out[0].Caption, "\n...") {
		t.Fatalf("caption not truncated: len=%d", len(out[0].Caption))
	}
}
