package language

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"EN", "en"},
		{" ru ", "ru"},
		{"eng", "en"},
		{"rus", "ru"},
		{"en-US", "en"},
		{"english", "en"},
		{"Russian", "ru"},
		{"en.*", "en.*"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeListDedupesInOrder(t *testing.T) {
	got := NormalizeList([]string{"russian", "", "en", "ru", "eng", "en.*"})
	want := []string{"ru", "en", "en.*"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeList mismatch (-want +got):\n%s", diff)
	}
}
