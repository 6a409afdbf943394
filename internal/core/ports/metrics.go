package ports

import "go.trai.ch/herd/internal/core/domain"

// MetricsSink collects run metrics. Implementations decide where they end
// up; the engine only reports.
type MetricsSink interface {
	// ObserveResult records one terminal job result.
	ObserveResult(res domain.Result)
	// ObserveRun records run-level aggregates after finalization.
	ObserveRun(sum domain.Summary)
	// Flush publishes collected metrics. Failure is reported as a
	// warning by the caller, never as a run failure.
	Flush() error
}
