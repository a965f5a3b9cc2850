package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"yt2audio/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "segment", "split", "ffmpeg failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"segment", "split", "ffmpeg failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestDetailsReturnsUserMessage(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "validate", "split", "no params", nil)
	if got := services.Details(err); got != "no params" {
		t.Fatalf("unexpected details %q", got)
	}
	outer := fmt.Errorf("pipeline: %w", err)
	if got := services.Details(outer); got != "no params" {
		t.Fatalf("expected details through wrapping, got %q", got)
	}
	if got := services.Details(errors.New("plain")); got != "plain" {
		t.Fatalf("expected fallback to error text, got %q", got)
	}
	if services.Details(nil) != "" {
		t.Fatal("expected empty details for nil")
	}
}

func TestOutcomeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, services.OutcomeSucceeded},
		{services.Wrap(services.ErrValidation, "validate", "", "not numeric", nil), services.OutcomeRejected},
		{fmt.Errorf("run: %w", context.DeadlineExceeded), services.OutcomeTimedOut},
		{services.Wrap(services.ErrExternalTool, "acquire", "download", "missing", nil), services.OutcomeFailed},
	}
	for _, tc := range cases {
		if got := services.OutcomeFor(tc.err); got != tc.want {
			t.Fatalf("OutcomeFor(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
