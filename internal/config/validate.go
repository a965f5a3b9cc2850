package config

import (
	"errors"
	"fmt"
	"strings"

	"yt2audio/internal/caption"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateCaption(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Cache.RedisDB < 0 {
		return errors.New("cache.redis_db must not be negative")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StoreDir) == "" {
		return errors.New("paths.store_dir must be set")
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	// The bitrate command rewrites this token.
	if !strings.Contains(c.Tools.ExtractOptions, "48k") {
		return fmt.Errorf("tools.extract_options must contain the default bitrate token %q", "48k")
	}
	if c.Tools.ThumbnailSize > 320 {
		return errors.New("tools.thumbnail_size must not exceed 320 pixels")
	}
	return nil
}

// validateCaption parses the caption template. Multi-part deliveries are told
// apart only by the partition label, so a template must use {partition}.
func (c *Config) validateCaption() error {
	tmpl, err := caption.Parse(c.Caption.Template)
	if err != nil {
		return fmt.Errorf("caption.template: %w", err)
	}
	if !tmpl.Uses(caption.Partition) {
		return fmt.Errorf("caption.template must use {%s}", caption.Partition)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	if c.Pipeline.HistoryRetentionDays < 0 {
		return errors.New("pipeline.history_retention_days must not be negative")
	}
	return nil
}
