package ports

import "go.trai.ch/herd/internal/core/domain"

// CacheStore persists per-unit build records across runs.
//
// Lookup serves the change detector from the state loaded at construction.
// Commit stages a record in memory; staged records become visible to
// Lookup only after the next process start. Flush atomically replaces the
// backing file with the merged state.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Lookup returns the record for the given unit key, or nil, nil when
	// no record exists.
	Lookup(key string) (*domain.CacheRecord, error)

	// Commit stages a record. Called only from the aggregation loop.
	Commit(rec domain.CacheRecord)

	// Flush writes the merged state to disk. Returns
	// domain.ErrCacheWriteFailed on failure.
	Flush() error
}
