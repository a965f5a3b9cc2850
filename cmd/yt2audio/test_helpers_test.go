package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yt2audio/internal/config"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig writes the path, tool, api and logging settings of cfg next
// to its store and returns the file path.
func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(filepath.Dir(cfg.Paths.StoreDir), "config.toml")
	content := fmt.Sprintf(
		"[paths]\nstore_dir = %q\nlog_dir = %q\nhistory_db = %q\n\n[tools]\nytdlp = %q\nffmpeg = %q\nffprobe = %q\n\n[api]\nbind = %q\ntoken = %q\n\n[logging]\nlevel = \"error\"\nretention_days = 0\n",
		cfg.Paths.StoreDir,
		cfg.Paths.LogDir,
		cfg.Paths.HistoryDB,
		cfg.Tools.YtDLP,
		cfg.Tools.FFmpeg,
		cfg.Tools.FFprobe,
		cfg.API.Bind,
		cfg.API.Token,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
