// Package ytdlp mediates access to the yt-dlp CLI.
//
// Client covers the three interactions the pipeline needs: reading metadata
// (--dump-json), extracting audio into the store, and fetching subtitle
// tracks. Command execution goes through the Executor interface so tests can
// replay canned output without the binary installed.
package ytdlp
