// Package logging assembles structured slog loggers and formatting helpers used
// across yt2audio.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the movie ID, command, stage and correlation ID carried in the
// context. Console output is colourised only when attached to a terminal.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
