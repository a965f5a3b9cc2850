// Package thumbnail downloads the source thumbnail and compresses it into a
// small JPEG cover with ffmpeg.
package thumbnail
