package pipeline

import (
	"context"
	"fmt"
	"time"

	"yt2audio/internal/caption"
	"yt2audio/internal/logging"
	"yt2audio/internal/movie"
	"yt2audio/internal/payload"
	"yt2audio/internal/services"
)

// resolveTimecodes returns one listing per segment. On failure every segment
// gets an empty listing and a single warning is recorded.
func (p *Pipeline) resolveTimecodes(ctx context.Context, meta *movie.Meta, seg segmented, result *Result) []string {
	ctx = services.WithStage(ctx, StageTimecodes)
	start := time.Now()
	listings, err := p.deps.Timecodes(seg.parts, meta.Description)
	if err == nil && len(listings) != len(seg.segments) {
		err = fmt.Errorf("timecodes: %d listings for %d segments", len(listings), len(seg.segments))
	}
	p.observer.ObserveStage(StageTimecodes, time.Since(start), err)
	if err != nil {
		result.warn(StageTimecodes, MsgTimecodesFailed, err)
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "timecodes unavailable", "timecodes_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "captions are sent without timecodes"),
		)
		return make([]string, len(seg.segments))
	}
	return listings
}

// compose renders one caption per segment and assembles the payloads.
func (p *Pipeline) compose(ctx context.Context, cmd movie.Command, meta *movie.Meta, seg segmented, listings []string, result *Result) {
	ctx = services.WithStage(ctx, StageCompose)
	start := time.Now()
	count := len(seg.segments)
	captions := make([]string, count)
	for i := range seg.segments {
		captions[i] = p.template.Render(caption.Fields{
			Title:      meta.Title,
			Author:     meta.Author,
			MovieID:    meta.ID,
			Duration:   meta.Duration,
			Additional: meta.AdditionalText(),
			Timecodes:  listings[i],
			Partition:  caption.PartitionLabel(i, count),
		})
	}

	payloads, err := payload.NewAssembler(p.limits).Assemble(payload.Input{
		Segments:         seg.segments,
		Captions:         captions,
		ThumbnailPath:    meta.ThumbnailPath,
		Title:            meta.Title,
		MovieID:          meta.ID,
		ChatID:           cmd.SenderID,
		ReplyToMessageID: cmd.MessageID,
	})
	p.observer.ObserveStage(StageCompose, time.Since(start), err)
	if err != nil {
		result.fail(StageCompose, MsgAssembleFailed, err)
		return
	}
	result.Duration = meta.Duration
	result.AudioDatas = payloads
	logging.WithContext(ctx, p.logger).Debug("payloads assembled", logging.Int("parts", len(payloads)))
}
