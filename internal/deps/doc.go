// Package deps reports whether the external tools the pipeline shells out to
// (yt-dlp, ffmpeg, ffprobe) can be found.
package deps
