// Package metrics records probe outcomes as Prometheus metrics and writes
// them out in the text exposition format once a run ends.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jpalmerr/httpload"
)

const namespace = "httpload"

// Recorder holds the metrics of one run on a private registry, so repeated
// runs in the same process never share series.
//
// Observe is meant to be registered with [httpload.WithResultCallback]; it is
// safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry
	probes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a [Recorder] with an empty registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Total number of probes by target URL and result.",
		}, []string{"url", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Latency distribution of probes by target URL.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"url"}),
	}
}

// Observe records a single probe result.
func (r *Recorder) Observe(res httpload.ProbeResult) {
	r.probes.WithLabelValues(res.URL, resultLabel(res.Success)).Inc()
	r.duration.WithLabelValues(res.URL).Observe(res.Elapsed.Seconds())
}

// Gatherer exposes the registry, mainly for tests and embedding.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every recorded series to path in the Prometheus text
// format. The file is written atomically, so a node exporter textfile
// collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
