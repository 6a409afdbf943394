// Package cas implements the persistent build cache as a single JSON
// record file.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore backed by one JSON file.
//
// The file is read fully at construction. Lookups serve the loaded state;
// commits stage new records in memory; Flush merges both and replaces the
// file atomically via a temp file and rename.
type Store struct {
	path string

	mu      sync.RWMutex
	records map[string]domain.CacheRecord
	staged  map[string]domain.CacheRecord
}

// NewStore creates a Store backed by the file at path. A missing file is
// an empty cache. A corrupt file is also treated as empty (and logged by
// the caller's warning) rather than bricking the tool: the cost is one
// full rebuild.
func NewStore(path string, logger ports.Logger) (*Store, error) {
	s := &Store{
		path:    filepath.Clean(path),
		records: make(map[string]domain.CacheRecord),
		staged:  make(map[string]domain.CacheRecord),
	}

	if err := s.load(); err != nil {
		logger.Warn("cache file unreadable, starting with an empty cache: " + err.Error())
		s.records = make(map[string]domain.CacheRecord)
	}

	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path) //nolint:gosec // Path is cleaned and comes from config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read cache file")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return zerr.Wrap(err, "failed to unmarshal cache file")
	}

	return nil
}

// Lookup returns the record loaded at construction for the given key, or
// nil, nil when absent. Staged commits are invisible until the next run.
func (s *Store) Lookup(key string) (*domain.CacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Commit stages a record for the next Flush.
func (s *Store) Commit(rec domain.CacheRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[rec.Key] = rec
}

// Flush merges staged records over the loaded state and atomically
// replaces the cache file.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]domain.CacheRecord, len(s.records)+len(s.staged))
	maps.Copy(merged, s.records)
	maps.Copy(merged, s.staged)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to marshal cache")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to create cache directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to create temp cache file")
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to write temp cache file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to close temp cache file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(errors.Join(domain.ErrCacheWriteFailed, err), "failed to replace cache file")
	}

	s.records = merged
	s.staged = make(map[string]domain.CacheRecord)
	return nil
}
