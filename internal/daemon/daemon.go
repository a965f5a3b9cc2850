package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"yt2audio/internal/api"
	"yt2audio/internal/config"
	"yt2audio/internal/logging"
	"yt2audio/internal/preflight"
)

// pruneInterval is how often run history is trimmed to its retention.
const pruneInterval = 6 * time.Hour

// Processor is the workflow surface the daemon exposes over HTTP.
type Processor interface {
	Process(ctx context.Context, req api.ProcessRequest) (api.ProcessResponse, error)
	History(ctx context.Context, movieID string, limit int) ([]api.HistoryEntry, error)
	Describe(ctx context.Context, runID string) (api.HistoryEntry, error)
	PruneHistory(ctx context.Context) (int64, error)
}

// Options carries the optional collaborators of a Daemon.
type Options struct {
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// Cache is pinged by the health endpoint when the metadata cache is enabled.
	Cache  preflight.Pinger
	Logger *slog.Logger
}

// Daemon serves the HTTP API and enforces a single instance per store.
type Daemon struct {
	cfg       *config.Config
	processor Processor
	opts      Options
	logger    *slog.Logger

	lockPath string
	lock     *flock.Flock
	server   *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Address      string
	LockFilePath string
	Health       api.HealthResponse
}

// New constructs a daemon for cfg.
func New(cfg *config.Config, processor Processor, opts Options) (*Daemon, error) {
	if cfg == nil || processor == nil {
		return nil, errors.New("daemon requires config and processor")
	}
	lockPath := filepath.Join(cfg.Paths.StoreDir, "yt2audiod.lock")
	return &Daemon{
		cfg:       cfg,
		processor: processor,
		opts:      opts,
		logger:    logging.NewComponentLogger(opts.Logger, "daemon"),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, starts the HTTP server and the history
// pruning loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another yt2audio daemon is already serving this store")
	}

	runCtx, cancel := context.WithCancel(ctx)
	server := newAPIServer(d.cfg, d, d.logger)
	if err := server.start(); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.server = server
	d.cancel = cancel

	d.wg.Add(1)
	go d.pruneLoop(runCtx)

	d.running.Store(true)
	d.logger.Info("yt2audio daemon started",
		logging.String("address", server.addr()),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop shuts down the HTTP server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("yt2audio daemon stopped")
}

// Addr returns the bound listener address, or "" when not running.
func (d *Daemon) Addr() string {
	if !d.running.Load() || d.server == nil {
		return ""
	}
	return d.server.addr()
}

// Status reports the runtime state together with preflight checks and
// tool availability.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		Address:      d.Addr(),
		LockFilePath: d.lockPath,
		Health:       d.health(ctx),
	}
}

func (d *Daemon) health(ctx context.Context) api.HealthResponse {
	checks := preflight.RunAll(ctx, d.cfg, d.opts.Cache)
	statuses := preflight.CheckSystemDeps(d.cfg)
	resp := api.HealthResponse{
		Status:       "ok",
		Checks:       api.FromChecks(checks),
		Dependencies: api.FromDependencies(statuses),
	}
	for _, check := range checks {
		if !check.Passed {
			resp.Status = "degraded"
		}
	}
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			resp.Status = "degraded"
		}
	}
	return resp
}

func (d *Daemon) pruneLoop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		if _, err := d.processor.PruneHistory(ctx); err != nil && ctx.Err() == nil {
			logging.WarnWithContext(d.logger, "history prune failed", "history_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "old runs stay in history until the next attempt"),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
