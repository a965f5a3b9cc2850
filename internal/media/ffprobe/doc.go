// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Prober: runs ffprobe; the command runner is injectable for tests
//   - Result: parsed streams and format metadata, including tags
//
// ReadTags backs the pipeline's tag reader: it flattens container and audio
// stream tags and exposes the embedded description under "desc".
package ffprobe
