package movie

import (
	"strings"

	"yt2audio/internal/config"
)

// Meta is the per-invocation configuration and metadata record. It is owned
// by a single pipeline run and filled in progressively by the validator, the
// acquirer and the segmenter.
type Meta struct {
	ID          string
	Title       string
	Author      string
	Description string

	ThumbnailURL string
	// ThumbnailPath is empty when no usable thumbnail exists.
	ThumbnailPath string

	// Duration is the total source length in seconds.
	Duration int

	Additional         string
	AdditionalMetaText string

	// ThresholdSeconds is the total duration below which no splitting occurs.
	ThresholdSeconds     int
	SplitDurationMinutes int

	// YtDLPRewriteOptions is the extraction option string handed to yt-dlp.
	YtDLPRewriteOptions string

	// Store is the directory receiving every artifact of the run.
	Store string
}

// NewMeta returns a fresh Meta populated with defaults for one invocation.
func NewMeta(limits config.Limits, store, extractOptions string) *Meta {
	return &Meta{
		ThresholdSeconds:     limits.SplitThresholdSeconds(),
		SplitDurationMinutes: limits.DefaultSplitMinutes,
		YtDLPRewriteOptions:  extractOptions,
		Store:                store,
	}
}

// NewMetaFromConfig is NewMeta wired from the application config.
func NewMetaFromConfig(cfg *config.Config) *Meta {
	return NewMeta(cfg.Limits, cfg.Paths.StoreDir, cfg.Tools.ExtractOptions)
}

// SegmentSeconds returns the requested per-part length in seconds.
func (m *Meta) SegmentSeconds() int {
	return m.SplitDurationMinutes * 60
}

// HasThumbnail reports whether a thumbnail path is set.
func (m *Meta) HasThumbnail() bool {
	return strings.TrimSpace(m.ThumbnailPath) != ""
}

// AdditionalText joins the free-form annotations shown next to the duration.
func (m *Meta) AdditionalText() string {
	parts := make([]string, 0, 2)
	for _, value := range []string{m.Additional, m.AdditionalMetaText} {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

// Info is the descriptive metadata returned by the metadata backend.
type Info struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// ApplyInfo copies acquired metadata onto m. A negative duration is clamped to zero.
func (m *Meta) ApplyInfo(info Info) {
	if id := strings.TrimSpace(info.ID); id != "" {
		m.ID = id
	}
	m.Title = strings.TrimSpace(info.Title)
	m.Author = strings.TrimSpace(info.Author)
	m.Description = info.Description
	m.ThumbnailURL = strings.TrimSpace(info.ThumbnailURL)
	m.Duration = max(info.Duration, 0)
}
