// Package metrics provides Prometheus metrics for opening extraction.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/pipeline"
)

// Label values for run status.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// PipelineMetrics contains Prometheus metrics for extraction runs
type PipelineMetrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	stageDuration  *prometheus.HistogramVec
	entitiesTotal  *prometheus.CounterVec
	loopsTotal     *prometheus.CounterVec
	labelsTotal    *prometheus.CounterVec
	insertsSkipped *prometheus.CounterVec
	lastRecords    prometheus.Gauge
}

var _ pipeline.Recorder = (*PipelineMetrics)(nil)

// NewPipelineMetrics creates and registers new pipeline metrics
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dxfwin_runs_total",
			Help: "Total number of extraction runs",
		},
		[]string{"status"},
	)

	m.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "dxfwin_run_duration_seconds",
			Help: "Time taken by a complete extraction run",
			// 10ms to ~80s
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dxfwin_stage_duration_seconds",
			Help:    "Time taken by each extraction stage",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"stage"},
	)

	m.entitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dxfwin_entities_total",
			Help: "Total number of entities processed",
		},
		[]string{"kind"}, // kind: source, flat, marker
	)

	m.loopsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dxfwin_loops_total",
			Help: "Total number of closed loops by class",
		},
		[]string{"class"}, // class: wall, candidate, noise, degenerate
	)

	m.labelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dxfwin_labels_total",
			Help: "Total number of opening labels by match result",
		},
		[]string{"result"}, // result: matched, unmatched, duplicate
	)

	m.insertsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dxfwin_inserts_skipped_total",
			Help: "Total number of block inserts that were not expanded",
		},
		[]string{"reason"}, // reason: depth, missing_block
	)

	m.lastRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dxfwin_last_run_records",
			Help: "Number of opening records produced by the last successful run",
		},
	)
}

// Describe implements the Collector interface
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.runsTotal.Describe(ch)
	m.runDuration.Describe(ch)
	m.stageDuration.Describe(ch)
	m.entitiesTotal.Describe(ch)
	m.loopsTotal.Describe(ch)
	m.labelsTotal.Describe(ch)
	m.insertsSkipped.Describe(ch)
	m.lastRecords.Describe(ch)
}

// Collect implements the Collector interface
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	m.runsTotal.Collect(ch)
	m.runDuration.Collect(ch)
	m.stageDuration.Collect(ch)
	m.entitiesTotal.Collect(ch)
	m.loopsTotal.Collect(ch)
	m.labelsTotal.Collect(ch)
	m.insertsSkipped.Collect(ch)
	m.lastRecords.Collect(ch)
}

// ObserveStage records the duration of one pipeline stage
func (m *PipelineMetrics) ObserveStage(stage pipeline.Stage, d time.Duration) {
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

// ObserveRun records the outcome and counters of a pipeline run
func (m *PipelineMetrics) ObserveRun(stats pipeline.Stats, d time.Duration, err error) {
	switch {
	case err == nil:
		m.runsTotal.WithLabelValues(StatusSuccess).Inc()
	case errors.HasCategory(err, errors.CategoryCancellation):
		m.runsTotal.WithLabelValues(StatusCanceled).Inc()
		return
	default:
		m.runsTotal.WithLabelValues(StatusError).Inc()
		return
	}

	m.runDuration.Observe(d.Seconds())
	m.lastRecords.Set(float64(stats.Records))

	m.entitiesTotal.WithLabelValues("source").Add(float64(stats.TotalEntities))
	m.entitiesTotal.WithLabelValues("flat").Add(float64(stats.FlatEntities))
	m.entitiesTotal.WithLabelValues("marker").Add(float64(stats.Markers))

	m.loopsTotal.WithLabelValues("wall").Add(float64(stats.Walls))
	m.loopsTotal.WithLabelValues("candidate").Add(float64(stats.Candidates))
	m.loopsTotal.WithLabelValues("noise").Add(float64(stats.Noise))
	m.loopsTotal.WithLabelValues("degenerate").Add(float64(stats.Degenerate))

	m.labelsTotal.WithLabelValues("matched").Add(float64(stats.Records))
	m.labelsTotal.WithLabelValues("unmatched").Add(float64(stats.Unmatched))
	m.labelsTotal.WithLabelValues("duplicate").Add(float64(stats.Duplicates))

	m.insertsSkipped.WithLabelValues("depth").Add(float64(stats.Truncated))
	m.insertsSkipped.WithLabelValues("missing_block").Add(float64(stats.MissingBlocks))
}

// Handler exposes the registry in the Prometheus text format
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
