package domain

import "go.trai.ch/zerr"

var (
	// ErrScanRootMissing is returned when the configured scan root does not exist.
	ErrScanRootMissing = zerr.New("scan root does not exist")

	// ErrNoUnits is returned when the scan finds no exportable projects.
	ErrNoUnits = zerr.New("no exportable projects found")

	// ErrArtifactMissing is returned when the exporter reports success but
	// the expected output file is not on disk.
	ErrArtifactMissing = zerr.New("exported artifact missing")

	// ErrBuildFailed is returned when at least one unit ended fatal.
	ErrBuildFailed = zerr.New("build failed")

	// ErrCacheWriteFailed is returned when the cache file could not be
	// replaced at finalization. Callers treat it as a warning.
	ErrCacheWriteFailed = zerr.New("cache write failed")
)
