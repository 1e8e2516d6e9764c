// Package metrics records per-run tool metrics and exports them in the
// Prometheus text format for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lintgate"

// Run holds the metrics of one analysis run. Each Run has its own registry.
type Run struct {
	registry *prometheus.Registry
	issues   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	findings prometheus.Gauge
}

// NewRun returns an empty set of run metrics.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_total",
			Help:      "Issues reported per tool, before diff scoping.",
		}, []string{"tool"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Wall time of a tool run.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"tool"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_failures_total",
			Help:      "Tool runs that did not produce a report.",
		}, []string{"tool"}),
		findings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reported_issues",
			Help:      "Issues left after diff scoping in the last run.",
		}),
	}
	r.registry.MustRegister(r.issues, r.duration, r.failures, r.findings)
	return r
}

// ToolFinished records one tool run.
func (r *Run) ToolFinished(tool string, d time.Duration, issues int, err error) {
	r.duration.WithLabelValues(tool).Observe(d.Seconds())
	if err != nil {
		r.failures.WithLabelValues(tool).Inc()
		return
	}
	r.issues.WithLabelValues(tool).Add(float64(issues))
}

// SetReported records the number of issues in the final report.
func (r *Run) SetReported(n int) {
	r.findings.Set(float64(n))
}

// WriteFile writes the metrics atomically to path.
func (r *Run) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
