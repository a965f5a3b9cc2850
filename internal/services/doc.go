// Package services defines shared utilities consumed by the pipeline stages
// and the external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp movie IDs, command names, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into outcomes (rejected, failed, timed out) for history and metrics.
//
// Tool clients live in subpackages (ytdlp) so each can be faked through an
// injected executor in tests.
package services
