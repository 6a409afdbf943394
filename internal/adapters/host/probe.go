// Package host probes the machine a run executes on.
package host

import (
	"os"
	"runtime"
	"strconv"

	"github.com/prometheus/procfs"
	"go.trai.ch/herd/internal/core/ports"
	"golang.org/x/sys/unix"
)

var _ ports.HostProbe = (*Probe)(nil)

// fallbackMemoryBytes is assumed when /proc is unavailable. Conservative
// enough not to oversubscribe a laptop, generous enough not to serialize
// a CI box.
const fallbackMemoryBytes = 8 << 30

// fallbackFileLimit is assumed when the rlimit cannot be read.
const fallbackFileLimit = 1024

// ciEnvVars are the environment variables whose presence marks a CI run.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

// EnvJobsOverride caps the worker count when set to a positive integer.
const EnvJobsOverride = "MAX_PARALLEL_JOBS"

// Probe implements ports.HostProbe.
type Probe struct {
	logger ports.Logger
}

// NewProbe creates a Probe.
func NewProbe(logger ports.Logger) *Probe {
	return &Probe{logger: logger}
}

// Probe inspects CPUs, available memory, the fd soft limit and the CI
// environment. It never fails; unavailable sources get fallbacks.
func (p *Probe) Probe() (ports.HostEnv, error) {
	env := ports.HostEnv{
		CPUs:           runtime.NumCPU(),
		AvailableBytes: p.availableMemory(),
		OpenFileLimit:  p.openFileLimit(),
		CI:             isCI(),
	}

	if v := os.Getenv(EnvJobsOverride); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			env.JobsOverride = n
		} else {
			p.logger.Warn("ignoring invalid " + EnvJobsOverride + "=" + v)
		}
	}

	return env, nil
}

func (p *Probe) availableMemory() uint64 {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		p.logger.Warn("procfs unavailable, assuming default memory budget")
		return fallbackMemoryBytes
	}

	meminfo, err := fs.Meminfo()
	if err != nil || meminfo.MemAvailable == nil {
		p.logger.Warn("meminfo unavailable, assuming default memory budget")
		return fallbackMemoryBytes
	}

	// Meminfo reports kB.
	return *meminfo.MemAvailable * 1024
}

func (p *Probe) openFileLimit() uint64 {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		p.logger.Warn("rlimit unavailable, assuming default fd limit")
		return fallbackFileLimit
	}
	return limit.Cur
}

func isCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}
