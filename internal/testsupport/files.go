package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and any missing parents, holding size filler bytes.
// Fake media files only need to exist and have a plausible size; a size <= 0
// still writes one byte so size checks see a non-empty file.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'a'}, int(max(size, 1))), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
