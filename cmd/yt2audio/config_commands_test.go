package main

import (
	"os"
	"path/filepath"
	"testing"

	"yt2audio/internal/testsupport"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[paths]")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateReportsPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"config", "validate"}, path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+path)
	requireContains(t, out, "Store directory: "+cfg.Paths.StoreDir)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected unknown key to fail validation")
	}
}

func TestConfigValidateRejectsUnknownCaptionPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[caption]\ntemplate = \"{titel} {partition}\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err := runCLI(t, []string{"config", "validate"}, path)
	if err == nil {
		t.Fatalf("expected bad caption template to fail validation, got output:\n%s", out)
	}
	requireContains(t, err.Error(), "unknown placeholder")
}
