package domain

import "time"

// ErrorKind classifies an export failure for the retry policy.
type ErrorKind string

const (
	// KindNone indicates the export succeeded.
	KindNone ErrorKind = "none"
	// KindTransient indicates a failure worth retrying (resource
	// exhaustion, signal-terminated subprocess).
	KindTransient ErrorKind = "transient"
	// KindFatal indicates a failure that retrying cannot fix (broken
	// project, missing export template). Never retried.
	KindFatal ErrorKind = "fatal"
	// KindTimeout indicates the subprocess exceeded its wall-clock budget.
	// Retried once, then escalated to fatal.
	KindTimeout ErrorKind = "timeout"
)

// Result is the final outcome of one unit's export, produced by a worker
// and consumed by the aggregation loop.
type Result struct {
	Unit     Unit
	State    JobState
	Kind     ErrorKind
	ExitCode int
	// Attempts is the number of subprocess invocations made, including
	// the final one.
	Attempts int
	Duration time.Duration
	// Output holds the bounded tail of the combined stdout/stderr of the
	// last attempt.
	Output string
	// OutputDigest and ArtifactBytes describe the verified artifact.
	// Only set on success.
	OutputDigest  string
	ArtifactBytes int64
	Err           error
}

// Failure is the summary entry for a unit that ended fatal.
type Failure struct {
	Key      string
	Kind     ErrorKind
	Attempts int
	// Excerpt is the tail of the exporter output, for the run report.
	Excerpt string
}

// Summary is the aggregate outcome of a run. It is mutated only by the
// single aggregation loop and read-only after finalization.
type Summary struct {
	Succeeded int
	Failed    int
	// Skipped counts units whose cache record matched; they count as
	// successes for the exit status.
	Skipped  int
	WallTime time.Duration
	Failures []Failure
}

// OK reports whether the run should exit successfully: no fatal results.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Total returns the number of units the run accounted for.
func (s *Summary) Total() int {
	return s.Succeeded + s.Failed + s.Skipped
}
