package pipeline

import (
	"context"

	"yt2audio/internal/gather"
	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
	"yt2audio/internal/services"
)

const (
	taskAudio     = "audio"
	taskThumbnail = "thumbnail"
)

// acquire downloads the audio and the thumbnail concurrently. A missing audio
// file is fatal; a missing thumbnail clears meta.ThumbnailPath with a warning.
func (p *Pipeline) acquire(ctx context.Context, meta *movie.Meta, result *Result) (string, bool) {
	ctx = services.WithStage(ctx, StageAcquire)
	logger := logging.WithContext(ctx, p.logger)

	tasks := []gather.Task{
		gather.Required(taskAudio, func(ctx context.Context) (string, error) {
			return p.downloadAudio(ctx, meta)
		}),
	}
	if p.deps.Thumbnail != nil {
		tasks = append(tasks, gather.Optional(taskThumbnail, func(ctx context.Context) (string, error) {
			return p.deps.Thumbnail.DownloadThumbnail(ctx, meta)
		}))
	}
	report := gather.Run(ctx, tasks...)
	p.observeReport(StageAcquire, report)

	if err := report.FatalErr(); err != nil {
		result.fail(StageAcquire, MsgAudioMissing, interrupted(ctx, err))
		return "", false
	}
	audioPath, _ := gather.Value[string](report, taskAudio)

	meta.ThumbnailPath = ""
	if p.deps.Thumbnail != nil {
		thumb, ok := gather.Value[string](report, taskThumbnail)
		if ok && fileExists(thumb) {
			meta.ThumbnailPath = thumb
		} else {
			var cause error
			if o, found := report.Lookup(taskThumbnail); found {
				cause = o.Err
			}
			result.warn(StageAcquire, MsgThumbnailMissing, cause)
			logging.WarnWithContext(logger, "thumbnail unavailable", "thumbnail_missing",
				logging.String("thumbnail_url", meta.ThumbnailURL),
				logging.String("thumbnail_path", thumb),
				logging.Any("cause", cause),
				logging.String(logging.FieldImpact, "parts are delivered without a cover"),
			)
		}
	}

	logger.Debug("media acquired",
		logging.String("audio_path", audioPath),
		logging.String("thumbnail_path", meta.ThumbnailPath),
	)
	return audioPath, true
}

func (p *Pipeline) downloadAudio(ctx context.Context, meta *movie.Meta) (string, error) {
	path, err := p.deps.Audio.DownloadAudio(ctx, meta)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, StageAcquire, "download audio", MsgAudioMissing, err)
	}
	if !fileExists(path) {
		return "", services.Wrap(services.ErrNotFound, StageAcquire, "download audio", MsgAudioMissing, nil)
	}
	return path, nil
}

// observeReport reports each task of a fan-out to the observer under stage/task.
func (p *Pipeline) observeReport(stage string, report gather.Report) {
	for _, o := range report.Outcomes {
		p.observer.ObserveStage(stage+"."+o.Name, o.Elapsed, o.Err)
	}
}
