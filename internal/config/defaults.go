package config

const (
	defaultStoreDir              = "~/.local/share/yt2audio/store"
	defaultLogDir                = "~/.local/share/yt2audio/logs"
	defaultHistoryDB             = "~/.local/share/yt2audio/history.db"
	defaultYtDLPBinary           = "yt-dlp"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultExtractOptions        = "--extract-audio --audio-format m4a --audio-quality 48k --no-playlist"
	defaultMetadataTimeout       = 90
	defaultThumbnailTimeout      = 30
	defaultThumbnailSize         = 320
	defaultCacheTTLSeconds       = 6 * 60 * 60
	defaultAPIBind               = "127.0.0.1:7489"
	defaultPipelineTimeoutMinute = 30
	defaultHistoryRetentionDays  = 90
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StoreDir:  defaultStoreDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Limits: DefaultLimits(),
		Tools: Tools{
			YtDLP:            defaultYtDLPBinary,
			FFmpeg:           defaultFFmpegBinary,
			FFprobe:          defaultFFprobeBinary,
			ExtractOptions:   defaultExtractOptions,
			MetadataTimeout:  defaultMetadataTimeout,
			ThumbnailTimeout: defaultThumbnailTimeout,
			ThumbnailSize:    defaultThumbnailSize,
		},
		Subtitles: Subtitles{
			Languages: []string{"en", "ru"},
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		API: API{
			Bind:           defaultAPIBind,
			AllowedOrigins: []string{"*"},
		},
		Pipeline: Pipeline{
			TimeoutMinutes:       defaultPipelineTimeoutMinute,
			HistoryRetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
