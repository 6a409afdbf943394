// Package metrics collects run metrics with prometheus and publishes them
// in textfile-collector format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetricsSink = (*Collector)(nil)

// Collector implements ports.MetricsSink on a private registry. Flush
// writes the registry in node-exporter textfile format, which fits a
// one-shot CLI better than an HTTP endpoint nobody would scrape in time.
type Collector struct {
	path     string
	registry *prometheus.Registry

	unitsTotal     *prometheus.CounterVec
	attemptsTotal  prometheus.Counter
	exportDuration prometheus.Histogram
	artifactBytes  prometheus.Counter
	runDuration    prometheus.Gauge
}

// NewCollector creates a Collector. An empty path makes Flush a no-op.
func NewCollector(path string) *Collector {
	c := &Collector{
		path:     path,
		registry: prometheus.NewRegistry(),
		unitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "herd_units_total",
			Help: "Units processed by terminal result.",
		}, []string{"result"}),
		attemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "herd_attempts_total",
			Help: "Exporter invocations including retries.",
		}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "herd_export_duration_seconds",
			Help:    "Wall time of one unit's export including retries.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		artifactBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "herd_artifact_bytes_total",
			Help: "Bytes of verified artifacts produced.",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "herd_run_duration_seconds",
			Help: "Wall time of the whole run.",
		}),
	}

	c.registry.MustRegister(
		c.unitsTotal,
		c.attemptsTotal,
		c.exportDuration,
		c.artifactBytes,
		c.runDuration,
	)
	return c
}

// ObserveResult records one terminal job result.
func (c *Collector) ObserveResult(res domain.Result) {
	c.unitsTotal.WithLabelValues(string(res.State)).Inc()
	c.attemptsTotal.Add(float64(res.Attempts))
	c.exportDuration.Observe(res.Duration.Seconds())
	if res.ArtifactBytes > 0 {
		c.artifactBytes.Add(float64(res.ArtifactBytes))
	}
}

// ObserveRun records run-level aggregates.
func (c *Collector) ObserveRun(sum domain.Summary) {
	c.runDuration.Set(sum.WallTime.Seconds())
	if sum.Skipped > 0 {
		c.unitsTotal.WithLabelValues("skipped").Add(float64(sum.Skipped))
	}
}

// Flush writes the metrics file, replacing it atomically.
func (c *Collector) Flush() error {
	if c.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.path, c.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics file"), "path", c.path)
	}
	return nil
}
