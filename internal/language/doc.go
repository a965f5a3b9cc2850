// Package language normalizes the subtitle languages named in configuration
// to the codes yt-dlp expects.
package language
