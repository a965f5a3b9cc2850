package metacache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
)

const (
	keyPrefix        = "yt2audio:meta:"
	operationTimeout = 2 * time.Second
	dialTimeout      = 5 * time.Second
)

// Fetcher resolves metadata for a movie id.
type Fetcher interface {
	FetchMetadata(ctx context.Context, id string) (movie.Info, error)
}

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Stats counts cache traffic since construction.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// Cache stores movie.Info documents in redis keyed by movie id.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// Open connects to redis and verifies the connection with a ping.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Cache, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis address required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  operationTimeout,
		WriteTimeout: operationTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return newCache(client, opts.TTL, logger), nil
}

func newCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "metacache")
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Key returns the redis key for id.
func Key(id string) string {
	return keyPrefix + strings.TrimSpace(id)
}

// Get returns the cached metadata for id. Redis errors count as misses.
func (c *Cache) Get(ctx context.Context, id string) (movie.Info, bool) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Debug("cache get failed", logging.String("key", Key(id)), logging.Error(err))
		}
		c.misses.Add(1)
		return movie.Info{}, false
	}
	var info movie.Info
	if err := json.Unmarshal(data, &info); err != nil {
		c.logger.Debug("cache entry unreadable", logging.String("key", Key(id)), logging.Error(err))
		c.misses.Add(1)
		return movie.Info{}, false
	}
	c.hits.Add(1)
	return info, true
}

// Set stores info under its id with the configured TTL.
func (c *Cache) Set(ctx context.Context, info movie.Info) error {
	if strings.TrimSpace(info.ID) == "" {
		return errors.New("cache set: movie id required")
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	if err := c.client.Set(ctx, Key(info.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	c.sets.Add(1)
	return nil
}

// Stats returns the hit, miss and set counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

// HealthCheck pings redis.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// CachingFetcher serves metadata from the cache and falls back to the
// wrapped fetcher on a miss. A nil cache passes every call through.
type CachingFetcher struct {
	next  Fetcher
	cache *Cache
}

// Wrap returns a Fetcher that consults cache before next.
func Wrap(next Fetcher, cache *Cache) *CachingFetcher {
	return &CachingFetcher{next: next, cache: cache}
}

// FetchMetadata implements Fetcher.
func (f *CachingFetcher) FetchMetadata(ctx context.Context, id string) (movie.Info, error) {
	if f.cache == nil {
		return f.next.FetchMetadata(ctx, id)
	}
	if info, ok := f.cache.Get(ctx, id); ok {
		return info, nil
	}
	info, err := f.next.FetchMetadata(ctx, id)
	if err != nil {
		return movie.Info{}, err
	}
	if info.ID == "" {
		info.ID = id
	}
	if err := f.cache.Set(ctx, info); err != nil {
		logging.WarnWithContext(f.cache.logger, "metadata cache write failed", "cache_write_failed",
			logging.String(logging.FieldMovieID, id),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next request refetches metadata"),
		)
	}
	return info, nil
}
