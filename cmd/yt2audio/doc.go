// Package main hosts the yt2audio CLI entrypoint and command graph.
//
// The Cobra command tree covers one-shot runs against a single video, the
// HTTP daemon, run history, dependency checks and configuration scaffolding.
// Configuration and logging are resolved once per invocation in
// commandContext; collaborators that hold resources (history database,
// redis cache) are built lazily by the commands that need them.
//
// Keep this package thin. Behaviour belongs in internal packages; commands
// translate flags into calls and render the results.
package main
