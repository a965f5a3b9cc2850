package pipeline

import (
	"context"
	"time"

	"yt2audio/internal/caption"
	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
	"yt2audio/internal/payload"
	"yt2audio/internal/services"
	"yt2audio/internal/subtitles"
)

// runSubtitles fetches subtitle text instead of producing audio parts. Fetch
// and save failures are warnings; the payload is always returned.
func (p *Pipeline) runSubtitles(ctx context.Context, meta *movie.Meta, query string, result *Result) {
	ctx = services.WithStage(ctx, StageSubtitles)
	logger := logging.WithContext(ctx, p.logger)

	out := &SubtitlesPayload{
		Caption: payload.Truncate(p.template.Render(caption.Fields{
			Title:      meta.Title,
			Author:     meta.Author,
			MovieID:    meta.ID,
			Duration:   meta.Duration,
			Additional: meta.AdditionalText(),
		}), p.limits.CaptionMaxLength),
		Filename: subtitles.FileName(meta.ID),
	}
	result.Subtitles = out
	result.Duration = meta.Duration

	if p.deps.Subtitles == nil {
		result.warn(StageSubtitles, MsgSubtitlesFailed, nil)
		return
	}

	start := time.Now()
	text, err := p.deps.Subtitles.FetchSubtitles(ctx, meta.ID, query)
	p.observer.ObserveStage(StageSubtitles, time.Since(start), err)
	if err != nil {
		result.warn(StageSubtitles, subtitlesMessage(err), err)
		logging.WarnWithContext(logger, "subtitles unavailable", "subtitles_failed",
			logging.Error(err),
			logging.String("query", query),
			logging.String(logging.FieldImpact, "subtitles payload has no text"),
		)
		return
	}
	out.Text = text

	path, err := subtitles.Save(meta.Store, meta.ID, text)
	if err != nil {
		result.warn(StageSubtitles, MsgSubtitlesNotStored, err)
		logging.WarnWithContext(logger, "subtitles not saved", "subtitles_save_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "text is returned inline only"),
		)
		return
	}
	out.Path = path
	logger.Info("subtitles ready",
		logging.String(logging.FieldEventType, "subtitles_ready"),
		logging.String("path", path),
		logging.Int("bytes", len(text)),
	)
}

// subtitlesMessage prefers the message carried by a wrapped collaborator error.
func subtitlesMessage(err error) string {
	if msg := services.Details(err); msg != "" && msg != err.Error() {
		return msg
	}
	return MsgSubtitlesFailed
}
