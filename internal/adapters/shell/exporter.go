// Package shell runs the exporter subprocess.
package shell

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Exporter)(nil)

// Options configures the Exporter.
type Options struct {
	// Binary is the exporter executable, resolved via PATH when relative.
	Binary string
	// Preset is the export preset name passed to the exporter.
	Preset string
	// Timeout is the wall-clock budget for one invocation.
	Timeout time.Duration
	// MaxOutputBytes bounds the captured stdout+stderr tail.
	MaxOutputBytes int
	// EnsurePreset synthesizes a minimal web preset when the project has
	// none, before the first invocation.
	EnsurePreset bool
}

// Exporter implements ports.Executor by invoking the exporter binary once
// per call:
//
//	<binary> --headless --path <dir> --export-release <preset> <out>
type Exporter struct {
	opts   Options
	logger ports.Logger
}

// NewExporter creates an Exporter. Zero option fields get defaults.
func NewExporter(opts Options, logger ports.Logger) *Exporter {
	if opts.Binary == "" {
		opts.Binary = "godot"
	}
	if opts.Preset == "" {
		opts.Preset = "Web"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.MaxOutputBytes <= 0 {
		opts.MaxOutputBytes = 64 << 10
	}
	return &Exporter{opts: opts, logger: logger}
}

// Execute runs one export attempt. The returned Result has Kind set; the
// job state machine is driven by the scheduler.
func (e *Exporter) Execute(ctx context.Context, unit *domain.Unit) domain.Result {
	start := time.Now()
	res := domain.Result{Unit: *unit}

	if err := os.MkdirAll(unit.OutputDir, 0o750); err != nil {
		res.Kind = domain.KindFatal
		res.Duration = time.Since(start)
		res.Err = zerr.With(zerr.Wrap(err, "failed to create output directory"), "unit", unit.Key)
		return res
	}

	if e.opts.EnsurePreset {
		if err := ensurePreset(unit.Dir, e.opts.Preset); err != nil {
			e.logger.Warn("could not ensure export preset for " + unit.Key + ": " + err.Error())
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	out := newTailBuffer(e.opts.MaxOutputBytes)

	//nolint:gosec // Binary and preset come from config, the rest from our own scan
	cmd := exec.CommandContext(ctx, e.opts.Binary,
		"--headless",
		"--path", unit.Dir,
		"--export-release", e.opts.Preset,
		unit.OutputFile,
	)
	cmd.Dir = unit.Dir
	cmd.Stdout = out
	cmd.Stderr = out

	runErr := cmd.Run()
	res.Duration = time.Since(start)
	res.Output = out.String()

	if runErr != nil {
		res.ExitCode = exitCode(runErr)
		res.Err = zerr.With(zerr.With(zerr.Wrap(runErr, "export command failed"), "unit", unit.Key), "exit_code", res.ExitCode)
		res.Kind = e.classifyFailure(ctx, res)
		return res
	}

	// Exit 0 alone is not success: the exporter is known to exit cleanly
	// after writing nothing.
	if _, err := os.Stat(unit.OutputFile); err != nil {
		res.Kind = domain.KindFatal
		res.Err = zerr.With(zerr.With(domain.ErrArtifactMissing, "unit", unit.Key), "path", unit.OutputFile)
		return res
	}

	res.Kind = domain.KindNone
	return res
}

// classifyFailure maps a failed invocation to an ErrorKind. Deadline wins
// over everything, then signal termination, then the output text tables.
func (e *Exporter) classifyFailure(ctx context.Context, res domain.Result) domain.ErrorKind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.KindTimeout
	}
	if res.ExitCode < 0 {
		// Killed by a signal (OOM killer and friends).
		return domain.KindTransient
	}
	return Classify(res.Output)
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
