package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"yt2audio/internal/language"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeSubtitles()
	c.normalizeAPI()
	c.normalizeLogging()
	if c.Pipeline.TimeoutMinutes <= 0 {
		c.Pipeline.TimeoutMinutes = defaultPipelineTimeoutMinute
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("YT2AUDIO_STORE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StoreDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("YT2AUDIO_REDIS_ADDR"); ok {
		c.Cache.RedisAddr = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("YT2AUDIO_REDIS_DB"); ok {
		if db, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			c.Cache.RedisDB = db
		}
	}
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("YT2AUDIO_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StoreDir) == "" {
		c.Paths.StoreDir = defaultStoreDir
	}
	if c.Paths.StoreDir, err = expandPath(c.Paths.StoreDir); err != nil {
		return fmt.Errorf("paths.store_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YtDLP = defaultString(c.Tools.YtDLP, defaultYtDLPBinary)
	c.Tools.FFmpeg = defaultString(c.Tools.FFmpeg, defaultFFmpegBinary)
	c.Tools.FFprobe = defaultString(c.Tools.FFprobe, defaultFFprobeBinary)
	c.Tools.ExtractOptions = defaultString(c.Tools.ExtractOptions, defaultExtractOptions)
	if c.Tools.MetadataTimeout <= 0 {
		c.Tools.MetadataTimeout = defaultMetadataTimeout
	}
	if c.Tools.ThumbnailTimeout <= 0 {
		c.Tools.ThumbnailTimeout = defaultThumbnailTimeout
	}
	if c.Tools.ThumbnailSize <= 0 {
		c.Tools.ThumbnailSize = defaultThumbnailSize
	}
}

func (c *Config) normalizeSubtitles() {
	langs := language.NormalizeList(c.Subtitles.Languages)
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	c.Subtitles.Languages = langs
}

func (c *Config) normalizeAPI() {
	c.API.Bind = defaultString(c.API.Bind, defaultAPIBind)
	origins := c.API.AllowedOrigins[:0]
	for _, origin := range c.API.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.API.AllowedOrigins = origins
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
