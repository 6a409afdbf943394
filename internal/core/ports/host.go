package ports

// HostEnv describes the resources of the machine a run executes on.
type HostEnv struct {
	// CPUs is the number of logical CPUs.
	CPUs int
	// AvailableBytes is the memory currently available for new work.
	AvailableBytes uint64
	// OpenFileLimit is the soft limit on open file descriptors.
	OpenFileLimit uint64
	// CI is true when a CI environment variable is set.
	CI bool
	// JobsOverride is a positive operator override for the worker count,
	// zero when unset.
	JobsOverride int
}

// HostProbe inspects the machine the run executes on.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type HostProbe interface {
	// Probe never fails the run: unavailable data sources degrade to
	// conservative defaults.
	Probe() (HostEnv, error)
}
