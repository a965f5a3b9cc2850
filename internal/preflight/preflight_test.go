package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"yt2audio/internal/config"
)

type stubPinger struct{ err error }

func (s stubPinger) HealthCheck(context.Context) error { return s.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCache(t *testing.T) {
	ctx := context.Background()
	if r := CheckCache(ctx, "localhost:6379", stubPinger{}); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckCache(ctx, "localhost:6379", stubPinger{err: errors.New("refused")}); r.Passed {
		t.Fatal("expected failure when ping fails")
	}
	if r := CheckCache(ctx, "localhost:6379", nil); r.Passed {
		t.Fatal("expected failure without a client")
	}
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StoreDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")
	cfg.Cache.RedisAddr = "localhost:6379"

	results := RunAll(context.Background(), &cfg, stubPinger{})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Log directory" {
		t.Fatalf("expected only the log directory to fail, got %#v", failed)
	}
	if RunAll(context.Background(), nil, nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.YtDLP = "clearly-not-present-ytdlp"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected yt-dlp stub name to be unavailable")
	}
	if !statuses[2].Optional {
		t.Fatal("ffprobe should be optional")
	}
}
