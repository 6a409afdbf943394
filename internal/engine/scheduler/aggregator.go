package scheduler

import (
	"fmt"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
)

// aggregator folds terminal results into the run summary and stages cache
// records for successful units. It is driven only from the single result
// loop in Run, so it needs no locking.
type aggregator struct {
	store   ports.CacheStore
	metrics ports.MetricsSink
	logger  ports.Logger
	sum     domain.Summary
}

func newAggregator(store ports.CacheStore, metrics ports.MetricsSink, logger ports.Logger) *aggregator {
	return &aggregator{store: store, metrics: metrics, logger: logger}
}

func (a *aggregator) recordSkipped() {
	a.sum.Skipped++
}

func (a *aggregator) record(res domain.Result) {
	a.metrics.ObserveResult(res)

	switch res.State {
	case domain.StateSuccess:
		a.sum.Succeeded++
		a.store.Commit(domain.CacheRecord{
			Key:          res.Unit.Key,
			Fingerprint:  res.Unit.Fingerprint,
			OutputDigest: res.OutputDigest,
			BuiltAt:      time.Now(),
		})
		a.logger.Info(fmt.Sprintf(
			"exported %s (%d bytes, %d attempt(s), %s)",
			res.Unit.Key, res.ArtifactBytes, res.Attempts, res.Duration.Round(time.Millisecond),
		))

	case domain.StateFatal:
		a.sum.Failed++
		a.sum.Failures = append(a.sum.Failures, domain.Failure{
			Key:      res.Unit.Key,
			Kind:     res.Kind,
			Attempts: res.Attempts,
			Excerpt:  res.Output,
		})
		a.logger.Error(res.Err)

	default:
		// Workers only emit terminal states; anything else is a bug worth
		// seeing in the logs rather than silently dropping.
		a.logger.Warn(fmt.Sprintf("dropping non-terminal result for %s: %s", res.Unit.Key, res.State))
	}
}

func (a *aggregator) finalize(wall time.Duration) domain.Summary {
	a.sum.WallTime = wall
	a.metrics.ObserveRun(a.sum)
	return a.sum
}
