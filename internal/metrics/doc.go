// Package metrics exposes pipeline activity as Prometheus metrics. Collector
// implements pipeline.Observer; the API server mounts Handler on /metrics.
package metrics
