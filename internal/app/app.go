// Package app implements the application layer for herd.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/detect"
	"go.trai.ch/herd/internal/engine/planner"
	"go.trai.ch/herd/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Settings are the configuration values the application layer acts on.
// They are resolved from herd.yaml during wiring.
type Settings struct {
	Root        string
	OutputDir   string
	CacheFile   string
	AllowEmpty  bool
	MaxAttempts int
	Limits      planner.Limits
}

// RunOptions carry the per-invocation flags.
type RunOptions struct {
	// Force exports every unit regardless of cache state.
	Force bool
	// BaseRef enables VCS change detection against the given revision.
	BaseRef string
	// Jobs overrides the planned worker count when positive.
	Jobs int
	// DryRun lists what would be exported without running anything.
	DryRun bool
	// FailFast stops dispatching after the first fatal failure.
	FailFast bool
	// KillOnInterrupt kills in-flight exports on cancellation instead of
	// letting them finish.
	KillOnInterrupt bool
}

// App represents the main application logic.
type App struct {
	settings  Settings
	scanner   ports.Scanner
	detector  *detect.Detector
	planner   *planner.Planner
	scheduler *scheduler.Scheduler
	store     ports.CacheStore
	metrics   ports.MetricsSink
	telemetry ports.Telemetry
	logger    ports.Logger
	stdout    io.Writer
}

// New creates a new App instance.
func New(
	settings Settings,
	scanner ports.Scanner,
	detector *detect.Detector,
	plan *planner.Planner,
	sched *scheduler.Scheduler,
	store ports.CacheStore,
	metrics ports.MetricsSink,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		settings:  settings,
		scanner:   scanner,
		detector:  detector,
		planner:   plan,
		scheduler: sched,
		store:     store,
		metrics:   metrics,
		telemetry: telemetry,
		logger:    logger,
		stdout:    os.Stdout,
	}
}

// WithStdout redirects the report output. Used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// Run executes one export run over the fleet.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	units, err := a.scanner.Scan(a.settings.Root)
	if err != nil {
		if errors.Is(err, domain.ErrNoUnits) && a.settings.AllowEmpty {
			a.logger.Warn("no projects found under " + a.settings.Root)
			return nil
		}
		return zerr.Wrap(err, "scan failed")
	}

	dirty, clean := a.detector.Detect(units, detect.Options{
		Force:   opts.Force,
		BaseRef: opts.BaseRef,
		Root:    a.settings.Root,
	})
	a.logger.Info(fmt.Sprintf("%d project(s): %d to export, %d up to date", len(units), len(dirty), len(clean)))

	workers := opts.Jobs
	if workers <= 0 {
		workers = a.planner.Plan(len(dirty), a.settings.Limits)
	}

	if opts.DryRun {
		return a.report(dirty, clean, workers)
	}

	sum, runErr := a.scheduler.Run(ctx, dirty, clean, scheduler.RunConfig{
		Workers:         workers,
		MaxAttempts:     a.settings.MaxAttempts,
		BaseBackoff:     time.Second,
		FailFast:        opts.FailFast,
		KillOnInterrupt: opts.KillOnInterrupt,
	})

	// The cache and metrics reflect whatever finished, even on a failed or
	// cancelled run. Flush problems degrade to warnings.
	if err := a.store.Flush(); err != nil {
		a.logger.Warn("cache flush failed: " + err.Error())
	}
	if err := a.metrics.Flush(); err != nil {
		a.logger.Warn("metrics flush failed: " + err.Error())
	}
	if err := a.telemetry.Close(); err != nil {
		a.logger.Warn("telemetry close failed: " + err.Error())
	}

	a.logger.Info(fmt.Sprintf(
		"run finished: %d exported, %d skipped, %d failed in %s",
		sum.Succeeded, sum.Skipped, sum.Failed, sum.WallTime.Round(time.Millisecond),
	))

	if runErr != nil {
		return zerr.Wrap(runErr, "run aborted")
	}
	if !sum.OK() {
		for _, f := range sum.Failures {
			a.logger.Warn(fmt.Sprintf("failed: %s (%s after %d attempt(s))", f.Key, f.Kind, f.Attempts))
		}
		return zerr.With(domain.ErrBuildFailed, "failed_units", sum.Failed)
	}
	return nil
}

// report lists the units a non-dry run would export, with the same counts
// the real run's summary would show.
func (a *App) report(dirty, clean []domain.Unit, workers int) error {
	if len(dirty) == 0 {
		_, err := fmt.Fprintf(a.stdout, "nothing to export, %d project(s) up to date\n", len(clean))
		return err
	}
	for _, u := range dirty {
		if _, err := fmt.Fprintf(a.stdout, "would export %s -> %s\n", u.Key, u.OutputDir); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(a.stdout, "%d project(s) across %d worker(s), %d up to date\n", len(dirty), workers, len(clean))
	return err
}

// Clean removes the cache file and the output tree.
func (a *App) Clean() error {
	if err := os.RemoveAll(a.settings.OutputDir); err != nil {
		return zerr.Wrap(err, "failed to remove output directory")
	}
	if err := os.Remove(a.settings.CacheFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove cache file")
	}
	a.logger.Info("removed " + a.settings.OutputDir + " and " + a.settings.CacheFile)
	return nil
}
