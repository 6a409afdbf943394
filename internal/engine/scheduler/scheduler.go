// Package scheduler runs export jobs across a bounded worker pool and
// aggregates their results.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// RunConfig controls one scheduling run.
type RunConfig struct {
	// Workers is the number of concurrent export subprocesses.
	Workers int
	// MaxAttempts bounds the total invocations per unit, including the
	// first one.
	MaxAttempts int
	// BaseBackoff is the delay before the first retry; it doubles per
	// subsequent retry.
	BaseBackoff time.Duration
	// FailFast cancels dispatch after the first fatal result.
	FailFast bool
	// KillOnInterrupt propagates run cancellation into in-flight
	// subprocesses. Off by default so a Ctrl-C lets running exports finish.
	KillOnInterrupt bool
}

func (c *RunConfig) normalize() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
}

// Scheduler owns the dispatch loop, the worker pool and the retry policy.
// Results flow through a single aggregation loop, so the cache store and
// the summary are only ever touched from one goroutine.
type Scheduler struct {
	executor  ports.Executor
	store     ports.CacheStore
	hasher    ports.Hasher
	telemetry ports.Telemetry
	metrics   ports.MetricsSink
	logger    ports.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(
	executor ports.Executor,
	store ports.CacheStore,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
	metrics ports.MetricsSink,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:  executor,
		store:     store,
		hasher:    hasher,
		telemetry: telemetry,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run exports every dirty unit and reports clean units as skipped. It
// returns the finalized summary and a non-nil error only when the run was
// cancelled before all units reached a terminal state.
func (s *Scheduler) Run(ctx context.Context, dirty, clean []domain.Unit, cfg RunConfig) (domain.Summary, error) {
	cfg.normalize()
	start := time.Now()

	agg := newAggregator(s.store, s.metrics, s.logger)

	for i := range clean {
		_, vertex := s.telemetry.Record(ctx, clean[i].Key)
		vertex.Cached()
		agg.recordSkipped()
	}

	if len(dirty) == 0 {
		return agg.finalize(time.Since(start)), nil
	}

	dispatchCtx, cancelDispatch := context.WithCancel(ctx)
	defer cancelDispatch()

	// Subprocesses outlive a cancelled run unless the caller asked for a
	// hard kill; cancellation then only stops new dispatch and retries.
	execCtx := context.WithoutCancel(ctx)
	if cfg.KillOnInterrupt {
		execCtx = ctx
	}

	jobs := make(chan *domain.Unit)
	results := make(chan domain.Result, cfg.Workers)

	// The dispatcher joins the same group as the workers: it too produces
	// results (for undispatched units), so results must not close before
	// it returns.
	var group errgroup.Group
	for range cfg.Workers {
		group.Go(func() error {
			for unit := range jobs {
				// A unit can still slip through the dispatch gate in the
				// instant cancellation lands; never execute it.
				if dispatchCtx.Err() != nil {
					results <- undispatched(unit, dispatchCtx.Err())
					continue
				}
				res := s.runJob(execCtx, dispatchCtx, unit, cfg)
				// Fail-fast must land before the next dispatch, so the
				// worker cancels rather than the result loop.
				if cfg.FailFast && res.State == domain.StateFatal {
					cancelDispatch()
				}
				results <- res
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(jobs)
		for i := range dirty {
			select {
			case jobs <- &dirty[i]:
			case <-dispatchCtx.Done():
				// Account for everything that never ran, including the
				// unit we were about to send.
				for j := i; j < len(dirty); j++ {
					results <- undispatched(&dirty[j], dispatchCtx.Err())
				}
				return nil
			}
		}
		return nil
	})

	go func() {
		_ = group.Wait()
		close(results)
	}()

	for res := range results {
		agg.record(res)
	}

	sum := agg.finalize(time.Since(start))
	if err := ctx.Err(); err != nil {
		return sum, zerr.Wrap(err, "run cancelled")
	}
	return sum, nil
}

// runJob drives one unit through the retry state machine until a terminal
// state. execCtx governs the subprocess lifetime, dispatchCtx only the
// willingness to wait out another backoff.
func (s *Scheduler) runJob(execCtx, dispatchCtx context.Context, unit *domain.Unit, cfg RunConfig) domain.Result {
	vctx, vertex := s.telemetry.Record(execCtx, unit.Key)

	timeouts := 0
	for attempt := 1; ; attempt++ {
		res := s.executor.Execute(vctx, unit)
		res.Attempts = attempt

		if res.Output != "" && res.Kind != domain.KindNone {
			_, _ = fmt.Fprint(vertex.Stderr(), res.Output)
		}

		switch res.Kind {
		case domain.KindNone:
			digest, size, err := s.hasher.OutputDigest(unit)
			if err != nil {
				res.State = domain.StateFatal
				res.Kind = domain.KindFatal
				res.Err = zerr.With(zerr.Wrap(err, "artifact verification failed"), "unit", unit.Key)
				vertex.Complete(res.Err)
				return res
			}
			res.State = domain.StateSuccess
			res.OutputDigest = digest
			res.ArtifactBytes = size
			vertex.Complete(nil)
			return res

		case domain.KindFatal:
			res.State = domain.StateFatal
			vertex.Complete(res.Err)
			return res

		case domain.KindTimeout:
			timeouts++
			if timeouts > 1 {
				res.State = domain.StateFatal
				res.Err = zerr.With(zerr.Wrap(res.Err, "timed out twice"), "unit", unit.Key)
				vertex.Complete(res.Err)
				return res
			}
		}

		// Transient, or a first timeout: retry if the budget allows.
		if attempt >= cfg.MaxAttempts {
			res.State = domain.StateFatal
			res.Err = zerr.With(zerr.Wrap(res.Err, "attempts exhausted"), "attempts", attempt)
			vertex.Complete(res.Err)
			return res
		}

		delay := cfg.BaseBackoff << (attempt - 1)
		vertex.Log(domain.LogLevelWarn, fmt.Sprintf(
			"attempt %d/%d failed (%s), retrying in %s", attempt, cfg.MaxAttempts, res.Kind, delay,
		))

		// Transient failures are usually memory pressure; give the next
		// attempt the best possible starting point.
		debug.FreeOSMemory()

		select {
		case <-time.After(delay):
		case <-dispatchCtx.Done():
			res.State = domain.StateFatal
			res.Err = zerr.Wrap(dispatchCtx.Err(), "retry abandoned")
			vertex.Complete(res.Err)
			return res
		}
	}
}

func undispatched(unit *domain.Unit, cause error) domain.Result {
	return domain.Result{
		Unit:  *unit,
		State: domain.StateFatal,
		Kind:  domain.KindFatal,
		Err:   zerr.With(zerr.Wrap(cause, "cancelled before dispatch"), "unit", unit.Key),
	}
}
