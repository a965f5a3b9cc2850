// Package api holds the workflows shared by the CLI and the HTTP daemon and
// the transport-friendly types they return.
//
// # Workflows
//
// Processor.Process resolves a movie reference, takes the per-movie store
// lock, looks up metadata, runs the pipeline under the configured timeout and
// records the run in history. Both "yt2audio run" and POST /v1/process go
// through it so the two surfaces cannot drift.
//
// Processor.History and Processor.Describe read recorded runs back.
//
// # Converters
//
// FromResult: pipeline.Result -> ProcessResponse.
//
// FromRun: history.Run -> HistoryEntry.
//
// FromDependencies: deps.Status -> DependencyStatus.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Request-level problems (bad movie reference, busy store) are returned as
// errors; everything that happens once a run starts is reported through the
// response outcome and diagnostics instead.
package api
