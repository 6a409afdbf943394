package cas_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.trai.ch/herd/internal/adapters/cas"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
)

type discardLogger struct{}

func (discardLogger) Info(string) {}
func (discardLogger) Warn(string) {}
func (discardLogger) Error(error) {}

var _ ports.Logger = discardLogger{}

func newStore(t *testing.T, path string) *cas.Store {
	t.Helper()
	store, err := cas.NewStore(path, discardLogger{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestStore_CommitAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cache.json")
	store := newStore(t, path)

	rec := domain.CacheRecord{
		Key:          "arcade/breakout",
		Fingerprint:  "abc",
		OutputDigest: "def",
		BuiltAt:      time.Now(),
	}
	store.Commit(rec)

	// Staged records are invisible to Lookup before Flush.
	got, err := store.Lookup("arcade/breakout")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got != nil {
		t.Fatal("staged record should not be visible before Flush")
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	// A fresh store sees the flushed record.
	reloaded := newStore(t, path)
	got, err = reloaded.Lookup("arcade/breakout")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got == nil {
		t.Fatal("Lookup returned nil after Flush")
	}
	if got.Fingerprint != "abc" || got.OutputDigest != "def" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestStore_LookupAbsent(t *testing.T) {
	store := newStore(t, filepath.Join(t.TempDir(), "cache.json"))

	got, err := store.Lookup("missing")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent key, got %+v", got)
	}
}

func TestStore_FlushPreservesExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first := newStore(t, path)
	first.Commit(domain.CacheRecord{Key: "a", Fingerprint: "1"})
	if err := first.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	second := newStore(t, path)
	second.Commit(domain.CacheRecord{Key: "b", Fingerprint: "2"})
	if err := second.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	third := newStore(t, path)
	for _, key := range []string{"a", "b"} {
		got, err := third.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", key, err)
		}
		if got == nil {
			t.Errorf("record %q lost across flushes", key)
		}
	}
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := newStore(t, path)
	got, err := store.Lookup("anything")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got != nil {
		t.Error("corrupt cache should behave as empty")
	}
}

func TestStore_FlushFailureIsCacheWriteError(t *testing.T) {
	dir := t.TempDir()
	// The parent of the cache path is a file, so MkdirAll must fail.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := newStore(t, filepath.Join(blocker, "cache.json"))
	store.Commit(domain.CacheRecord{Key: "a"})

	err := store.Flush()
	if err == nil {
		t.Fatal("expected Flush to fail")
	}
	if !errors.Is(err, domain.ErrCacheWriteFailed) {
		t.Errorf("expected ErrCacheWriteFailed, got %v", err)
	}
}
