package pipeline

import (
	"context"
	"strings"

	"yt2audio/internal/gather"
	"yt2audio/internal/logging"
	"yt2audio/internal/media/ffprobe"
	"yt2audio/internal/movie"
	"yt2audio/internal/payload"
	"yt2audio/internal/scheme"
	"yt2audio/internal/services"
)

const (
	taskSplit    = "split"
	taskCompress = "compress"
	taskTags     = "tags"
)

// segmented is the output of the segmentation fan-out.
type segmented struct {
	parts    []scheme.Part
	segments []payload.Segment
}

// segment plans the scheme and then splits the audio, compresses the
// thumbnail and reads tags concurrently. Only a split failure is fatal.
func (p *Pipeline) segment(ctx context.Context, meta *movie.Meta, audioPath string, result *Result) (segmented, bool) {
	ctx = services.WithStage(ctx, StageSegment)
	logger := logging.WithContext(ctx, p.logger)

	parts := p.deps.Planner(meta.Duration, meta.SegmentSeconds(), p.limits.BoundaryDeltaSeconds, true, meta.ThresholdSeconds)
	logger.Info("split scheme planned",
		logging.String(logging.FieldEventType, "scheme_planned"),
		logging.Int("parts", len(parts)),
		logging.Int("segment_seconds", meta.SegmentSeconds()),
		logging.Int("threshold_seconds", meta.ThresholdSeconds),
	)

	tasks := []gather.Task{
		gather.Required(taskSplit, func(ctx context.Context) ([]payload.Segment, error) {
			return p.deps.Splitter.Split(ctx, audioPath, meta.Duration, meta.Store, parts)
		}),
	}
	thumbnail := meta.ThumbnailPath
	if p.deps.Compressor != nil && meta.HasThumbnail() {
		tasks = append(tasks, gather.Optional(taskCompress, func(ctx context.Context) (string, error) {
			return p.deps.Compressor.Compress(ctx, thumbnail)
		}))
	}
	if p.deps.Tags != nil {
		tasks = append(tasks, gather.Optional(taskTags, func(ctx context.Context) (map[string]string, error) {
			return p.deps.Tags.ReadTags(ctx, audioPath)
		}))
	}
	report := gather.Run(ctx, tasks...)
	p.observeReport(StageSegment, report)

	if err := report.FatalErr(); err != nil {
		wrapped := services.Wrap(services.ErrExternalTool, StageSegment, "split audio", MsgSplitFailed, err)
		result.fail(StageSegment, MsgSplitFailed, interrupted(ctx, wrapped))
		return segmented{}, false
	}
	segments, _ := gather.Value[[]payload.Segment](report, taskSplit)

	if _, ran := report.Lookup(taskCompress); ran {
		p.applyCover(ctx, report, meta, result)
	}

	if _, ran := report.Lookup(taskTags); ran {
		tags, ok := gather.Value[map[string]string](report, taskTags)
		if !ok {
			o, _ := report.Lookup(taskTags)
			logger.Debug("tag read failed", logging.Error(o.Err))
		}
		if desc := strings.TrimSpace(tags[ffprobe.DescriptionTag]); desc != "" && strings.TrimSpace(meta.Description) == "" {
			meta.Description = desc
			logger.Debug("description backfilled from tags", logging.Int("length", len(desc)))
		}
	}

	return segmented{parts: parts, segments: segments}, true
}

// applyCover swaps in the compressed thumbnail, falling back to the original
// when compression failed and dropping the cover when neither exists.
func (p *Pipeline) applyCover(ctx context.Context, report gather.Report, meta *movie.Meta, result *Result) {
	cover, ok := gather.Value[string](report, taskCompress)
	if ok && fileExists(cover) {
		meta.ThumbnailPath = cover
		return
	}
	var cause error
	if o, found := report.Lookup(taskCompress); found {
		cause = o.Err
	}
	message := MsgCompressFailed
	if !fileExists(meta.ThumbnailPath) {
		meta.ThumbnailPath = ""
		message = MsgCompressNoCover
	}
	result.warn(StageSegment, message, cause)
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), "thumbnail compression failed", "thumbnail_compress_failed",
		logging.Any("cause", cause),
		logging.String("thumbnail_path", meta.ThumbnailPath),
		logging.String(logging.FieldImpact, "cover is the original image or absent"),
	)
}
