package domain

// JobState represents the lifecycle state of one export job.
type JobState string

const (
	// StatePending indicates the job has not been dispatched yet.
	StatePending JobState = "pending"
	// StateRunning indicates the exporter subprocess is executing.
	StateRunning JobState = "running"
	// StateRetrying indicates the job failed transiently and is waiting
	// out its backoff before being attempted again.
	StateRetrying JobState = "retrying"
	// StateSuccess indicates the export finished and the artifact was
	// verified. Terminal.
	StateSuccess JobState = "success"
	// StateFatal indicates the job will not be attempted again. Terminal.
	StateFatal JobState = "fatal"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == StateSuccess || s == StateFatal
}

// CanTransition reports whether the move from s to next is legal.
// Pending -> Running -> {Success | Fatal | Retrying}, Retrying -> Running.
func (s JobState) CanTransition(next JobState) bool {
	switch s {
	case StatePending:
		return next == StateRunning || next == StateFatal
	case StateRunning:
		return next == StateSuccess || next == StateFatal || next == StateRetrying
	case StateRetrying:
		return next == StateRunning || next == StateFatal
	default:
		return false
	}
}
