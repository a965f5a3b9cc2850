package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"yt2audio/internal/caption"
	"yt2audio/internal/command"
	"yt2audio/internal/config"
	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
	"yt2audio/internal/scheme"
	"yt2audio/internal/services"
	"yt2audio/internal/timecodes"
)

// Stage names used in diagnostics, logs and metrics.
const (
	StageMetadata  = "metadata"
	StageValidate  = "validate"
	StageAcquire   = "acquire"
	StageSegment   = "segment"
	StageTimecodes = "timecodes"
	StageCompose   = "compose"
	StageSubtitles = "subtitles"
)

// User-facing diagnostic messages.
const (
	MsgAudioMissing       = "Download. Audio file does not exist."
	MsgThumbnailMissing   = "Thumbnail. Not available, parts are sent without a cover."
	MsgCompressFailed     = "Thumbnail. Compression failed, using the original image."
	MsgCompressNoCover    = "Thumbnail. Compression failed, parts are sent without a cover."
	MsgSplitFailed        = "Split. Unable to split the audio file."
	MsgTimecodesFailed    = "Timecodes. Unable to read timecodes from the description."
	MsgAssembleFailed     = "Assemble. Unable to build the audio parts."
	MsgSubtitlesFailed    = "Subtitles. Unable to fetch subtitles."
	MsgSubtitlesNotStored = "Subtitles. Unable to save the subtitles file."
)

// Observer receives timing and outcome events. Implementations must be safe
// for concurrent use when one pipeline serves several runs at once.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
	ObserveRun(result Result)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration, error) {}

func (nopObserver) ObserveRun(Result) {}

// Options configures a Pipeline.
type Options struct {
	Limits   config.Limits
	Template *caption.Template
	Logger   *slog.Logger
	Observer Observer
}

// Pipeline turns one command and one movie into deliverable parts. A
// Pipeline holds no per-run state and may serve concurrent runs, each with
// its own Meta.
type Pipeline struct {
	deps      Dependencies
	limits    config.Limits
	validator command.Validator
	template  *caption.Template
	logger    *slog.Logger
	observer  Observer
}

// New validates the dependencies and options and returns a Pipeline.
func New(deps Dependencies, opts Options) (*Pipeline, error) {
	if deps.Audio == nil {
		return nil, errors.New("pipeline: audio downloader required")
	}
	if deps.Splitter == nil {
		return nil, errors.New("pipeline: audio splitter required")
	}
	if err := opts.Limits.Validate(); err != nil {
		return nil, err
	}
	if deps.Planner == nil {
		deps.Planner = scheme.Plan
	}
	if deps.Timecodes == nil {
		deps.Timecodes = timecodes.Resolve
	}
	tmpl := opts.Template
	if tmpl == nil {
		tmpl = caption.MustParse(caption.DefaultTemplate)
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Pipeline{
		deps:      deps,
		limits:    opts.Limits,
		validator: command.NewValidator(opts.Limits),
		template:  tmpl,
		logger:    logging.NewComponentLogger(opts.Logger, "pipeline"),
		observer:  observer,
	}, nil
}

// Run executes the pipeline for cmd against meta. meta is mutated in place
// and must not be shared with another run. The caller bounds the run with a
// deadline on ctx.
func (p *Pipeline) Run(ctx context.Context, cmd movie.Command, meta *movie.Meta) Result {
	start := time.Now()
	runID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRequestID(ctx, runID)
	}
	ctx = services.WithMovieID(ctx, meta.ID)
	ctx = services.WithCommand(ctx, cmd.Name)

	result := Result{RunID: runID, MovieID: meta.ID, Command: cmd.Name}
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Any("params", cmd.Params),
		logging.Int("duration_seconds", meta.Duration),
	)

	p.execute(ctx, cmd, meta, &result)

	result.Elapsed = time.Since(start)
	p.observer.ObserveRun(result)
	p.logRunEnd(logger, result)
	return result
}

func (p *Pipeline) execute(ctx context.Context, cmd movie.Command, meta *movie.Meta, result *Result) {
	outcome, err := p.validate(ctx, cmd, meta)
	if err != nil {
		result.fail(StageValidate, services.Details(err), err)
		return
	}
	if outcome.Subtitles {
		p.runSubtitles(ctx, meta, outcome.Query, result)
		return
	}

	audioPath, ok := p.acquire(ctx, meta, result)
	if !ok {
		return
	}
	seg, ok := p.segment(ctx, meta, audioPath, result)
	if !ok {
		return
	}
	listings := p.resolveTimecodes(ctx, meta, seg, result)
	p.compose(ctx, cmd, meta, seg, listings, result)
}

func (p *Pipeline) validate(ctx context.Context, cmd movie.Command, meta *movie.Meta) (command.Outcome, error) {
	start := time.Now()
	outcome, err := p.validator.Apply(cmd, meta)
	p.observer.ObserveStage(StageValidate, time.Since(start), err)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithStage(ctx, StageValidate), p.logger),
			"command rejected", "validation_failed",
			logging.String("reason", services.Details(err)),
			logging.String(logging.FieldErrorHint, "fix the command parameters and retry"),
			logging.String(logging.FieldImpact, "nothing is downloaded"),
		)
	}
	return outcome, err
}

func (p *Pipeline) logRunEnd(logger *slog.Logger, result Result) {
	attrs := []logging.Attr{
		logging.String("outcome", result.Outcome()),
		logging.Int("parts", len(result.AudioDatas)),
		logging.Int("warnings", len(result.Warnings())),
		logging.Duration("elapsed", result.Elapsed),
	}
	if err := result.Err(); err != nil {
		attrs = append(attrs, logging.Error(err))
		logging.ErrorWithContext(logger, "run failed", "run_failed", attrs...)
		return
	}
	attrs = append(attrs, logging.String(logging.FieldEventType, "run_complete"))
	logger.Info("run completed", logging.Args(attrs...)...)
}

// interrupted tags err as a timeout when ctx ended before the step completed.
func interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		marker := services.ErrTransient
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "", "", services.Details(err), errors.Join(err, ctxErr))
	}
	return err
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
