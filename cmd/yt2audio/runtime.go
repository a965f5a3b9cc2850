package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yt2audio/internal/api"
	"yt2audio/internal/caption"
	"yt2audio/internal/config"
	"yt2audio/internal/history"
	"yt2audio/internal/logging"
	"yt2audio/internal/media/ffprobe"
	"yt2audio/internal/metacache"
	"yt2audio/internal/metrics"
	"yt2audio/internal/pipeline"
	"yt2audio/internal/preflight"
	"yt2audio/internal/services/ytdlp"
	"yt2audio/internal/splitter"
	"yt2audio/internal/subtitles"
	"yt2audio/internal/thumbnail"
)

// appRuntime owns every long-lived collaborator of a command invocation.
type appRuntime struct {
	cfg       *config.Config
	logger    *slog.Logger
	history   *history.Store
	cache     *metacache.Cache
	metrics   *metrics.Collector
	processor *api.Processor
}

func buildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*appRuntime, error) {
	rt := &appRuntime{cfg: cfg, logger: logger, metrics: metrics.New(nil)}

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	rt.history = store

	if cfg.CacheEnabled() {
		cache, err := metacache.Open(ctx, metacache.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.CacheTTL(),
		}, logger)
		if err != nil {
			logging.WarnWithContext(logger, "metadata cache unavailable", "cache_unavailable",
				logging.String("addr", cfg.Cache.RedisAddr),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache.redis_addr or start redis"),
				logging.String(logging.FieldImpact, "every run queries yt-dlp for metadata"),
			)
		} else {
			rt.cache = cache
		}
	}

	client, err := ytdlp.New(cfg.Tools.YtDLP, cfg.Tools.MetadataTimeout, ytdlp.WithLanguages(cfg.Subtitles.Languages))
	if err != nil {
		rt.Close()
		return nil, err
	}
	tmpl, err := caption.Parse(cfg.Caption.Template)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("caption template: %w", err)
	}

	pipe, err := pipeline.New(pipeline.Dependencies{
		Audio:      client,
		Thumbnail:  thumbnail.NewDownloader(time.Duration(cfg.Tools.ThumbnailTimeout) * time.Second),
		Splitter:   splitter.New(cfg.Tools.FFmpeg),
		Compressor: thumbnail.NewCompressor(cfg.Tools.FFmpeg, cfg.Tools.ThumbnailSize),
		Tags:       ffprobe.New(cfg.Tools.FFprobe),
		Subtitles:  subtitles.NewFetcher(client, cfg.Paths.StoreDir, logger),
	}, pipeline.Options{
		Limits:   cfg.Limits,
		Template: tmpl,
		Logger:   logger,
		Observer: rt.metrics,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	processor, err := api.NewProcessor(cfg, metacache.Wrap(client, rt.cache), pipe, logger,
		api.WithHistory(store),
		api.WithObserver(rt.metrics),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.processor = processor
	return rt, nil
}

// pinger returns the metadata cache for health checks, or nil when disabled.
func (rt *appRuntime) pinger() preflight.Pinger {
	if rt.cache == nil {
		return nil
	}
	return rt.cache
}

func (rt *appRuntime) Close() {
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			rt.logger.Debug("metadata cache close failed", logging.Error(err))
		}
	}
	if rt.history != nil {
		if err := rt.history.Close(); err != nil {
			rt.logger.Warn("run history close failed", logging.Error(err))
		}
	}
}
