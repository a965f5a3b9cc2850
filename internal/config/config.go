package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StoreDir  string `toml:"store_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Tools contains external binaries and the options handed to them.
type Tools struct {
	YtDLP   string `toml:"ytdlp"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	// ExtractOptions is the yt-dlp option string used for audio extraction.
	// The bitrate command rewrites its "48k" token.
	ExtractOptions   string `toml:"extract_options"`
	MetadataTimeout  int    `toml:"metadata_timeout"`
	ThumbnailTimeout int    `toml:"thumbnail_timeout"`
	ThumbnailSize    int    `toml:"thumbnail_size"`
}

// Caption contains caption rendering configuration.
type Caption struct {
	Template string `toml:"template"`
}

// Subtitles contains configuration for the subtitles command.
type Subtitles struct {
	Languages []string `toml:"languages"`
}

// Cache contains configuration for the optional redis metadata cache.
type Cache struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// API contains configuration for the HTTP surface.
type API struct {
	Bind           string   `toml:"bind"`
	Token          string   `toml:"token"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Pipeline contains per-invocation execution settings.
type Pipeline struct {
	TimeoutMinutes int `toml:"timeout_minutes"`
	// HistoryRetentionDays bounds how long run history is kept; 0 keeps everything.
	HistoryRetentionDays int `toml:"history_retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for yt2audio.
//
// Configuration sections by subsystem:
//   - Paths: store, log and history locations
//   - Limits: command bounds and caption size
//   - Tools: yt-dlp/ffmpeg/ffprobe binaries and extraction options
//   - Caption: caption template
//   - Subtitles: subtitle languages requested from the backend
//   - Cache: redis metadata cache
//   - API: HTTP bind address, token and CORS origins
//   - Pipeline: invocation timeout
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Limits    Limits    `toml:"limits"`
	Tools     Tools     `toml:"tools"`
	Caption   Caption   `toml:"caption"`
	Subtitles Subtitles `toml:"subtitles"`
	Cache     Cache     `toml:"cache"`
	API       API       `toml:"api"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/yt2audio/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("yt2audio.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the store and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StoreDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.HistoryDB); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

// PipelineTimeout returns the time limit applied to one pipeline invocation.
func (c *Config) PipelineTimeout() time.Duration {
	return time.Duration(c.Pipeline.TimeoutMinutes) * time.Minute
}

// HistoryRetention returns how long run history is kept, zero meaning forever.
func (c *Config) HistoryRetention() time.Duration {
	return time.Duration(c.Pipeline.HistoryRetentionDays) * 24 * time.Hour
}

// CacheTTL returns the metadata cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// CacheEnabled reports whether a redis address is configured.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.Cache.RedisAddr) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
