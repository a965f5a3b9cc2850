package pipeline

import (
	"context"

	"yt2audio/internal/movie"
	"yt2audio/internal/payload"
	"yt2audio/internal/scheme"
)

// AudioDownloader fetches the source audio into meta.Store.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, meta *movie.Meta) (string, error)
}

// ThumbnailDownloader fetches meta.ThumbnailURL into meta.Store.
type ThumbnailDownloader interface {
	DownloadThumbnail(ctx context.Context, meta *movie.Meta) (string, error)
}

// Planner computes the split scheme for a total duration.
type Planner func(total, segment, delta int, magicTail bool, threshold int) []scheme.Part

// AudioSplitter writes one file per part into outDir.
type AudioSplitter interface {
	Split(ctx context.Context, source string, total int, outDir string, parts []scheme.Part) ([]payload.Segment, error)
}

// ThumbnailCompressor produces a cover-sized copy of a thumbnail.
type ThumbnailCompressor interface {
	Compress(ctx context.Context, path string) (string, error)
}

// TagReader returns container tags; a "desc" key carries the embedded description.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (map[string]string, error)
}

// SubtitleFetcher returns subtitle text for id filtered by query.
type SubtitleFetcher interface {
	FetchSubtitles(ctx context.Context, id, query string) (string, error)
}

// TimecodeResolver returns one timecode listing per part.
type TimecodeResolver func(parts []scheme.Part, description string) ([]string, error)

// Dependencies bundles the collaborators of a pipeline. Audio and Splitter are
// required; a nil Planner or Timecodes falls back to the built-in
// implementation and any other nil collaborator disables its step.
type Dependencies struct {
	Audio      AudioDownloader
	Thumbnail  ThumbnailDownloader
	Planner    Planner
	Splitter   AudioSplitter
	Compressor ThumbnailCompressor
	Tags       TagReader
	Subtitles  SubtitleFetcher
	Timecodes  TimecodeResolver
}
