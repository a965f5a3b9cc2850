package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"yt2audio/internal/config"
	"yt2audio/internal/history"
	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
	"yt2audio/internal/pipeline"
	"yt2audio/internal/services"
	"yt2audio/internal/storelock"
)

// MetadataFetcher resolves descriptive metadata for a movie id.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, id string) (movie.Info, error)
}

// PipelineRunner runs one command against one movie.
type PipelineRunner interface {
	Run(ctx context.Context, cmd movie.Command, meta *movie.Meta) pipeline.Result
}

// HistoryStore persists and reads back runs.
type HistoryStore interface {
	Record(ctx context.Context, run history.Run) error
	List(ctx context.Context, movieID string, limit int) ([]history.Run, error)
	Get(ctx context.Context, runID string) (history.Run, error)
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProcessorOption customizes a Processor.
type ProcessorOption func(*Processor)

// WithHistory records every run in store.
func WithHistory(store HistoryStore) ProcessorOption {
	return func(p *Processor) {
		p.history = store
	}
}

// WithObserver reports runs that halt before the pipeline starts.
func WithObserver(observer pipeline.Observer) ProcessorOption {
	return func(p *Processor) {
		p.observer = observer
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

// Processor runs requests end to end.
type Processor struct {
	cfg      *config.Config
	metadata MetadataFetcher
	pipeline PipelineRunner
	history  HistoryStore
	observer pipeline.Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewProcessor constructs a Processor. History is optional.
func NewProcessor(cfg *config.Config, metadata MetadataFetcher, runner PipelineRunner, logger *slog.Logger, opts ...ProcessorOption) (*Processor, error) {
	if cfg == nil || metadata == nil || runner == nil {
		return nil, errors.New("processor requires config, metadata fetcher and pipeline")
	}
	p := &Processor{
		cfg:      cfg,
		metadata: metadata,
		pipeline: runner,
		logger:   logging.NewComponentLogger(logger, "processor"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs req and returns the outcome. An error is returned only when
// the request cannot start; failures inside the run are carried by the
// response.
func (p *Processor) Process(ctx context.Context, req ProcessRequest) (ProcessResponse, error) {
	id, err := movie.ParseID(req.Movie)
	if err != nil {
		return ProcessResponse{}, services.Wrap(services.ErrValidation, "request", "parse", "Request. Unknown video reference.", err)
	}
	cmd, err := req.command()
	if err != nil {
		return ProcessResponse{}, services.Wrap(services.ErrValidation, "request", "parse", "Request. Malformed command.", err)
	}

	lock, err := p.lockMovie(ctx, id, req.Wait)
	if err != nil {
		if errors.Is(err, storelock.ErrBusy) {
			return ProcessResponse{}, services.Wrap(services.ErrTransient, "request", "lock", "Request. This video is already being processed.", err)
		}
		return ProcessResponse{}, services.Wrap(services.ErrConfiguration, "request", "lock", "Request. Store is not writable.", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			p.logger.Warn("store lock release failed", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	base := ctx
	if timeout := p.cfg.PipelineTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx = services.WithRequestID(ctx, runID)
	ctx = services.WithMovieID(ctx, id)
	ctx = services.WithCommand(ctx, cmd.Name)

	meta := movie.NewMetaFromConfig(p.cfg)
	meta.ID = id

	start := time.Now()
	var result pipeline.Result
	info, err := p.metadata.FetchMetadata(ctx, id)
	if err != nil {
		result = pipeline.Halted(runID, id, cmd.Name, pipeline.StageMetadata, err)
		result.Elapsed = time.Since(start)
		if p.observer != nil {
			p.observer.ObserveRun(result)
		}
		logging.ErrorWithContext(logging.WithContext(ctx, p.logger), "metadata lookup failed", "metadata_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the video is public and yt-dlp is up to date"),
		)
	} else {
		meta.ApplyInfo(info)
		result = p.pipeline.Run(ctx, cmd, meta)
	}

	p.record(context.WithoutCancel(base), result, meta.Title, cmd.Params)
	return FromResult(result, meta.Title), nil
}

// lockMovie takes the store lock for id. With wait it blocks until the lock
// frees up or ctx is done; otherwise a held lock fails at once.
func (p *Processor) lockMovie(ctx context.Context, id string, wait bool) (*storelock.Lock, error) {
	if wait {
		return storelock.Acquire(ctx, p.cfg.Paths.StoreDir, id)
	}
	return storelock.TryAcquire(p.cfg.Paths.StoreDir, id)
}

func (p *Processor) record(ctx context.Context, result pipeline.Result, title string, params []string) {
	if p.history == nil {
		return
	}
	run := history.FromResult(result, title, params, p.now())
	if err := p.history.Record(ctx, run); err != nil {
		logging.WarnWithContext(p.logger, "run history write failed", "history_write_failed",
			logging.String("run_id", result.RunID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from history"),
		)
	}
}

// History lists recorded runs, newest first. movieID may be empty.
func (p *Processor) History(ctx context.Context, movieID string, limit int) ([]HistoryEntry, error) {
	if p.history == nil {
		return []HistoryEntry{}, nil
	}
	runs, err := p.history.List(ctx, strings.TrimSpace(movieID), limit)
	if err != nil {
		return nil, err
	}
	return FromRuns(runs), nil
}

// Describe returns one recorded run.
func (p *Processor) Describe(ctx context.Context, runID string) (HistoryEntry, error) {
	if p.history == nil {
		return HistoryEntry{}, history.ErrNotFound
	}
	run, err := p.history.Get(ctx, runID)
	if err != nil {
		return HistoryEntry{}, err
	}
	return FromRun(run), nil
}

// PruneHistory removes runs older than the configured retention.
func (p *Processor) PruneHistory(ctx context.Context) (int64, error) {
	retention := p.cfg.HistoryRetention()
	if p.history == nil || retention <= 0 {
		return 0, nil
	}
	removed, err := p.history.Prune(ctx, p.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		p.logger.Info("pruned run history", logging.Int64("removed", removed))
	}
	return removed, nil
}

func (r ProcessRequest) command() (movie.Command, error) {
	text := strings.TrimSpace(r.Command)
	if text == "" {
		text = movie.CommandDownload
	}
	if len(r.Params) > 0 {
		text += " " + strings.Join(r.Params, " ")
	}
	cmd, err := movie.ParseCommand(text)
	if err != nil {
		return movie.Command{}, err
	}
	cmd.SenderID = r.SenderID
	cmd.MessageID = r.MessageID
	return cmd, nil
}
