// Package detect decides which units need rebuilding.
package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
)

// Options control one detection pass.
type Options struct {
	// Force marks every unit dirty regardless of cache state.
	Force bool
	// BaseRef enables the VCS signal when non-empty.
	BaseRef string
	// Root is the scan root, used to map changed paths onto units.
	Root string
}

// Detector computes the dirty set from the cache fingerprints, optionally
// widened by a VCS diff signal.
//
// The two signals form a union: the VCS signal can only add dirty units,
// never veto a fingerprint mismatch. That makes "silently skipping
// everything" structurally impossible: any degraded data source widens
// the dirty set instead of narrowing it.
type Detector struct {
	store  ports.CacheStore
	differ ports.RefDiffer
	logger ports.Logger
}

// NewDetector creates a Detector. differ may be nil when no VCS signal is
// wanted.
func NewDetector(store ports.CacheStore, differ ports.RefDiffer, logger ports.Logger) *Detector {
	return &Detector{store: store, differ: differ, logger: logger}
}

// Detect splits units into dirty and clean, preserving input order.
// It never fails: every degraded signal dirties more, not less.
func (d *Detector) Detect(units []domain.Unit, opts Options) (dirty, clean []domain.Unit) {
	if opts.Force {
		return units, nil
	}

	changed, allChanged := d.vcsSignal(opts)
	if allChanged {
		return units, nil
	}

	for _, unit := range units {
		if d.isDirty(&unit, changed) {
			dirty = append(dirty, unit)
		} else {
			clean = append(clean, unit)
		}
	}
	return dirty, clean
}

// vcsSignal returns the set of changed absolute paths, or allChanged when
// the history cannot answer.
func (d *Detector) vcsSignal(opts Options) (paths []string, allChanged bool) {
	if opts.BaseRef == "" || d.differ == nil {
		return nil, false
	}

	paths, allDirty, err := d.differ.ChangedPaths(opts.Root, opts.BaseRef)
	if err != nil {
		d.logger.Warn("change detection against " + opts.BaseRef + " failed, treating all units as changed: " + err.Error())
		return nil, true
	}
	if allDirty {
		return nil, true
	}
	d.logger.Info(fmt.Sprintf("%d path(s) changed since %s", len(paths), opts.BaseRef))
	return paths, false
}

func (d *Detector) isDirty(unit *domain.Unit, changedPaths []string) bool {
	prefix := unit.Dir + string(filepath.Separator)
	for _, path := range changedPaths {
		if strings.HasPrefix(path, prefix) || path == unit.Dir {
			return true
		}
	}

	rec, err := d.store.Lookup(unit.Key)
	if err != nil {
		// An unreadable record must rebuild, never skip.
		d.logger.Warn("cache lookup failed for " + unit.Key + ": " + err.Error())
		return true
	}
	if rec == nil {
		return true
	}
	return rec.Fingerprint != unit.Fingerprint
}
