package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"yt2audio/internal/config"
	"yt2audio/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	runtime *appRuntime
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the application logger, falling back to console output when
// the log directory cannot be opened.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
			logger.Warn("file logging unavailable", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

// app builds the runtime on first use. Commands that only read config never
// open the history database or connect to redis.
func (c *commandContext) app(cmd *cobra.Command) (*appRuntime, error) {
	if c.runtime != nil {
		return c.runtime, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	rt, err := buildRuntime(cmd.Context(), cfg, c.log())
	if err != nil {
		return nil, err
	}
	c.runtime = rt
	return rt, nil
}

func (c *commandContext) close() {
	if c.runtime != nil {
		c.runtime.Close()
		c.runtime = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
