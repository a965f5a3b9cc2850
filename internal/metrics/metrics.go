package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yt2audio/internal/pipeline"
)

// Collector records pipeline activity. It implements pipeline.Observer.
type Collector struct {
	gatherer prometheus.Gatherer

	runsTotal        *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	partsTotal       prometheus.Counter
	diagnosticsTotal *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	stageFailures    *prometheus.CounterVec
}

// New registers the pipeline metrics with reg. A nil reg uses a fresh
// registry, which keeps tests and repeated construction independent.
func New(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return newCollector(promauto.With(reg), reg)
}

// NewDefault registers with the global Prometheus registry. Call it once per process.
func NewDefault() *Collector {
	return newCollector(promauto.With(prometheus.DefaultRegisterer), prometheus.DefaultGatherer)
}

func newCollector(factory promauto.Factory, gatherer prometheus.Gatherer) *Collector {
	return &Collector{
		gatherer: gatherer,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "yt2audio_runs_total",
			Help: "Pipeline runs by command and outcome",
		}, []string{"command", "outcome"}), // outcome=succeeded|rejected|failed|timed_out
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yt2audio_run_duration_seconds",
			Help:    "Wall time of pipeline runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
		}, []string{"outcome"}),
		partsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "yt2audio_parts_total",
			Help: "Audio parts assembled for delivery",
		}),
		diagnosticsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "yt2audio_diagnostics_total",
			Help: "Diagnostics raised by kind and stage",
		}, []string{"kind", "stage"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yt2audio_stage_duration_seconds",
			Help:    "Duration of pipeline stages and fan-out tasks",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
		stageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "yt2audio_stage_failures_total",
			Help: "Failed pipeline stages and fan-out tasks",
		}, []string{"stage"}),
	}
}

// ObserveStage implements pipeline.Observer.
func (c *Collector) ObserveStage(stage string, elapsed time.Duration, err error) {
	stage = strings.TrimSpace(stage)
	c.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		c.stageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRun implements pipeline.Observer.
func (c *Collector) ObserveRun(result pipeline.Result) {
	outcome := result.Outcome()
	c.runsTotal.WithLabelValues(commandLabel(result.Command), outcome).Inc()
	c.runDuration.WithLabelValues(outcome).Observe(result.Elapsed.Seconds())
	c.partsTotal.Add(float64(len(result.AudioDatas)))
	for _, d := range result.Diagnostics {
		c.diagnosticsTotal.WithLabelValues(string(d.Kind), d.Stage).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// commandLabel bounds label cardinality to the known commands.
func commandLabel(name string) string {
	switch name {
	case "split", "bitrate", "subtitles":
		return name
	default:
		return "default"
	}
}
