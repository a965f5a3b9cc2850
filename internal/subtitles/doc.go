// Package subtitles fetches caption tracks and renders them as plain text.
//
// Tracks are downloaded through a Downloader (the yt-dlp client in
// production), parsed from WebVTT or SRT, cleaned of advertisement cues and of
// the repeated lines rolling automatic captions produce, and optionally
// filtered by a free-text query. Save stores the result atomically.
package subtitles
