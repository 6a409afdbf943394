// Package planner computes how many export jobs can run in parallel.
package planner

import (
	"fmt"

	"go.trai.ch/herd/internal/core/ports"
)

// Limits are the per-job resource budgets.
type Limits struct {
	// MemoryPerJob is the expected peak memory of one exporter process.
	MemoryPerJob uint64
	// FDsPerJob is the expected file descriptor usage of one job.
	FDsPerJob uint64
	// ReservedCores are kept free for the rest of the machine.
	ReservedCores int
	// CIReservedCores replaces ReservedCores on CI hosts, where nobody
	// else needs the cores.
	CIReservedCores int
}

// Planner turns a host probe into a worker count.
type Planner struct {
	probe  ports.HostProbe
	logger ports.Logger
}

// NewPlanner creates a Planner.
func NewPlanner(probe ports.HostProbe, logger ports.Logger) *Planner {
	return &Planner{probe: probe, logger: logger}
}

// Plan probes the host and returns the worker count for unitCount jobs.
// Probe failures degrade to defaults inside the probe, so Plan itself
// never fails.
func (p *Planner) Plan(unitCount int, limits Limits) int {
	env, err := p.probe.Probe()
	if err != nil {
		p.logger.Warn("host probe failed, planning a single worker: " + err.Error())
		return 1
	}

	jobs := PlanWith(unitCount, env, limits)
	p.logger.Info(fmt.Sprintf(
		"planned %d worker(s) (cpus=%d avail_mem=%dMB fd_limit=%d ci=%v override=%d)",
		jobs, env.CPUs, env.AvailableBytes>>20, env.OpenFileLimit, env.CI, env.JobsOverride,
	))
	return jobs
}

// PlanWith is the pure planning arithmetic: the minimum of the CPU, memory
// and fd ceilings, capped by the unit count and clamped to at least one.
// A positive JobsOverride wins over the computed ceilings but is still
// capped by the unit count.
func PlanWith(unitCount int, env ports.HostEnv, limits Limits) int {
	if env.JobsOverride > 0 {
		return clamp(env.JobsOverride, unitCount)
	}

	reserve := limits.ReservedCores
	if env.CI {
		reserve = limits.CIReservedCores
	}

	jobs := env.CPUs - reserve

	if limits.MemoryPerJob > 0 {
		if byMem := int(env.AvailableBytes / limits.MemoryPerJob); byMem < jobs {
			jobs = byMem
		}
	}
	if limits.FDsPerJob > 0 {
		if byFD := int(env.OpenFileLimit / limits.FDsPerJob); byFD < jobs {
			jobs = byFD
		}
	}

	return clamp(jobs, unitCount)
}

func clamp(jobs, unitCount int) int {
	if unitCount <= 0 {
		return 1
	}
	if jobs > unitCount {
		jobs = unitCount
	}
	if jobs < 1 {
		return 1
	}
	return jobs
}
