// Package movie holds the per-invocation media record, the parsed command
// and the video ID parser shared by the CLI and the HTTP API.
//
// NewMeta is the only way to obtain a Meta; each call returns an independent
// value so concurrent invocations never share defaults.
package movie
