package command_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"yt2audio/internal/command"
	"yt2audio/internal/config"
	"yt2audio/internal/movie"
	"yt2audio/internal/services"
)

const extractOptions = "--extract-audio --audio-format m4a --audio-quality 48k --no-playlist"

func newMeta() *movie.Meta {
	return movie.NewMeta(config.DefaultLimits(), "/store", extractOptions)
}

func TestSplitAcceptsEveryValueInRange(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	for p := 5; p <= 39; p++ {
		meta := newMeta()
		out, err := v.Apply(movie.Command{Name: "split", Params: []string{strconv.Itoa(p)}}, meta)
		if err != nil {
			t.Fatalf("split %d: unexpected error %v", p, err)
		}
		if out.Subtitles {
			t.Fatalf("split %d: unexpected subtitles outcome", p)
		}
		if meta.ThresholdSeconds != 1 || meta.SplitDurationMinutes != p {
			t.Fatalf("split %d: meta not applied: %+v", p, meta)
		}
	}
}

func TestSplitRejectsInvalidParamsWithoutMutation(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	cases := []struct {
		name   string
		params []string
		msg    string
	}{
		{"absent", nil, command.MsgNoParams},
		{"non numeric", []string{"twenty"}, command.MsgNotNumeric},
		{"float", []string{"20.5"}, command.MsgNotNumeric},
		{"below", []string{"4"}, command.OutOfRangeMessage(5, 39)},
		{"above", []string{"40"}, command.OutOfRangeMessage(5, 39)},
		{"negative", []string{"-10"}, command.OutOfRangeMessage(5, 39)},
		{"two params", []string{"10", "20"}, command.MsgTooManyArgs},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := newMeta()
			before := *meta
			_, err := v.Apply(movie.Command{Name: "split", Params: tc.params}, meta)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if got := services.Details(err); got != tc.msg {
				t.Fatalf("unexpected message %q, want %q", got, tc.msg)
			}
			if diff := cmp.Diff(before, *meta); diff != "" {
				t.Fatalf("meta mutated on failure (-before +after):\n%s", diff)
			}
		})
	}
}

func TestBitrateReplacesOnlyTheToken(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	for _, b := range []int{48, 128, 320} {
		meta := newMeta()
		if _, err := v.Apply(movie.Command{Name: "bitrate", Params: []string{strconv.Itoa(b)}}, meta); err != nil {
			t.Fatalf("bitrate %d: %v", b, err)
		}
		want := "--extract-audio --audio-format m4a --audio-quality " + strconv.Itoa(b) + "k --no-playlist"
		if meta.YtDLPRewriteOptions != want {
			t.Fatalf("bitrate %d: got %q want %q", b, meta.YtDLPRewriteOptions, want)
		}
		if meta.AdditionalMetaText != command.BitrateNote(b) {
			t.Fatalf("bitrate %d: unexpected note %q", b, meta.AdditionalMetaText)
		}
		if meta.ThresholdSeconds != 7200 {
			t.Fatalf("bitrate must not touch split settings")
		}
	}
}

func TestBitrateOutOfRangeLeavesOptionsUnchanged(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	for _, param := range []string{"999", "47", "321", "abc"} {
		meta := newMeta()
		if _, err := v.Apply(movie.Command{Name: "bitrate", Params: []string{param}}, meta); err == nil {
			t.Fatalf("bitrate %s: expected error", param)
		}
		if meta.YtDLPRewriteOptions != extractOptions || meta.AdditionalMetaText != "" {
			t.Fatalf("bitrate %s: meta mutated: %+v", param, meta)
		}
	}
}

func TestSubtitlesJoinsQuery(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	meta := newMeta()
	before := *meta

	out, err := v.Apply(movie.Command{Name: "subtitles", Params: []string{"go", "generics"}}, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Subtitles || out.Query != "go generics" {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out, err = v.Apply(movie.Command{Name: "subtitles"}, meta)
	if err != nil || !out.Subtitles || out.Query != "" {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if diff := cmp.Diff(before, *meta); diff != "" {
		t.Fatalf("subtitles mutated meta:\n%s", diff)
	}
}

func TestOtherCommandsPassThrough(t *testing.T) {
	v := command.NewValidator(config.DefaultLimits())
	meta := newMeta()
	before := *meta
	out, err := v.Apply(movie.Command{Name: "download", Params: []string{"anything"}}, meta)
	if err != nil || out != (command.Outcome{}) {
		t.Fatalf("unexpected outcome %+v err=%v", out, err)
	}
	if diff := cmp.Diff(before, *meta); diff != "" {
		t.Fatalf("pass-through mutated meta:\n%s", diff)
	}
}
