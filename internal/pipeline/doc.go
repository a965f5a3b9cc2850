// Package pipeline turns one movie and one user command into deliverable
// audio parts or a subtitles payload.
//
// A run validates the command against the limits table, then acquires media
// and segments it through two concurrent fan-outs (see package gather),
// resolves timecodes, renders captions and assembles payloads. Every
// degraded step is recorded as a warning Diagnostic and the run continues;
// the first error Diagnostic halts it. External tools are reached through
// the interfaces in collaborators.go so tests can substitute fakes.
//
// The pipeline holds no deadline of its own; callers bound Run with a
// context deadline.
package pipeline
