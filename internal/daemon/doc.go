// Package daemon runs the long-lived "yt2audio serve" process.
//
// It wires the shared api.Processor behind a chi router with CORS, bearer
// token auth and per-IP rate limiting on the process endpoint, exposes
// Prometheus metrics and a health endpoint backed by preflight checks, and
// trims run history on a timer. A flock in the store directory prevents two
// daemons from serving the same store.
//
// Routes:
//
//	GET  /healthz
//	GET  /metrics
//	POST /v1/process
//	GET  /v1/history?movie=<id>&limit=<n>
//	GET  /v1/history/{runID}
package daemon
