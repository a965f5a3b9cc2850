package timecodes_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"yt2audio/internal/scheme"
	"yt2audio/internal/timecodes"
)

const description = `Episode notes
0:00 Intro
[05:30] Setup
12:00 - The problem
20:10 – Live coding
1:01:05 Q&A
Thanks for watching`

func TestResolveSplitsListingsPerPart(t *testing.T) {
	parts := []scheme.Part{
		{Index: 0, Start: 0, Duration: 1200},
		{Index: 1, Start: 1200, Duration: 1200},
		{Index: 2, Start: 2400, Duration: 1300},
	}
	got, err := timecodes.Resolve(parts, description)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{
		"0:00 Intro\n5:30 Setup\n12:00 The problem",
		"0:10 Live coding",
		"21:05 Q&A",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSinglePartKeepsAbsoluteTimes(t *testing.T) {
	parts := []scheme.Part{{Index: 0, Start: 0, Duration: 4000}}
	got, err := timecodes.Resolve(parts, description)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := "0:00 Intro\n5:30 Setup\n12:00 The problem\n20:10 Live coding\n1:01:05 Q&A"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected listing %q", got)
	}
}

func TestResolveLastPartIncludesEnd(t *testing.T) {
	parts := []scheme.Part{{Index: 0, Start: 0, Duration: 60}, {Index: 1, Start: 60, Duration: 60}}
	got, err := timecodes.Resolve(parts, "1:00 boundary\n2:00 end\n2:01 beyond")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"", "0:00 boundary\n1:00 end"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyDescription(t *testing.T) {
	parts := []scheme.Part{{Index: 0, Duration: 10}, {Index: 1, Start: 10, Duration: 10}}
	got, err := timecodes.Resolve(parts, "  ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"", ""}, got); diff != "" {
		t.Fatalf("unexpected listings:\n%s", diff)
	}
}

func TestResolveSkipsMalformedTimestampLines(t *testing.T) {
	parts := []scheme.Part{{Index: 0, Duration: 1200}, {Index: 1, Start: 1200, Duration: 1200}}
	got, err := timecodes.Resolve(parts, "0:00 Intro\n5:00 Setup\n25:00 Deep dive\n7:60 typo in a later line")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"0:00 Intro\n5:00 Setup", "5:00 Deep dive"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRejectsOnlyMalformedTimestamps(t *testing.T) {
	parts := []scheme.Part{{Index: 0, Duration: 600}}
	if _, err := timecodes.Resolve(parts, "Notes\n3:75 Broken\n1:99:00 Also broken"); !errors.Is(err, timecodes.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseReportsSkippedLines(t *testing.T) {
	entries, skipped := timecodes.Parse("0:00 Intro\n7:60 typo\nplain text")
	if diff := cmp.Diff([]timecodes.Entry{{Seconds: 0, Label: "Intro"}}, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"7:60 typo"}, skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	cases := map[int]string{0: "0:00", 59: "0:59", 61: "1:01", 600: "10:00", 3600: "1:00:00", 3725: "1:02:05", -3: "0:00"}
	for in, want := range cases {
		if got := timecodes.Format(in); got != want {
			t.Fatalf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	valid := map[string]int{"0:00": 0, "5:30": 330, "12:00": 720, "1:01:05": 3665}
	for in, want := range valid {
		got, err := timecodes.ParseTimestamp(in)
		if err != nil || got != want {
			t.Fatalf("ParseTimestamp(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"1:60", "1:75:00", "12", "a:bc"} {
		if _, err := timecodes.ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q): expected error", in)
		}
	}
}
