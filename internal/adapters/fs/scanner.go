package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/zerr"
)

// Marker is the file whose presence makes a directory a project unit.
const Marker = "project.godot"

// PrimaryArtifact is the entry-point file each export must produce.
const PrimaryArtifact = "index.html"

var _ ports.Scanner = (*Scanner)(nil)

// Scanner discovers project units under a root directory.
type Scanner struct {
	fp        *Fingerprinter
	outputDir string
	excludes  []string
}

// NewScanner creates a Scanner. outputDir is the absolute root of the
// export tree; it is never descended into during discovery.
func NewScanner(fp *Fingerprinter, outputDir string, excludes []string) *Scanner {
	return &Scanner{
		fp:        fp,
		outputDir: filepath.Clean(outputDir),
		excludes:  excludes,
	}
}

// Scan walks root for project markers and returns the units sorted by key,
// with fingerprints computed. A discovered project directory is not
// descended into, so nested fixtures inside a project do not become units.
func (s *Scanner) Scan(root string) ([]domain.Unit, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve scan root")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrScanRootMissing, "stat failed"), "path", root)
	}

	var dirs []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if name == ".git" || name == ".jj" || path == s.outputDir {
			return filepath.SkipDir
		}
		for _, exclude := range s.excludes {
			if matched, _ := filepath.Match(exclude, name); matched {
				return filepath.SkipDir
			}
		}

		if _, err := os.Stat(filepath.Join(path, Marker)); err == nil {
			dirs = append(dirs, path)
			return filepath.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, zerr.With(zerr.Wrap(walkErr, "project scan failed"), "path", root)
	}

	if len(dirs) == 0 {
		return nil, zerr.With(domain.ErrNoUnits, "path", root)
	}

	units := make([]domain.Unit, 0, len(dirs))
	for _, dir := range dirs {
		unit, err := s.buildUnit(root, dir)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Key < units[j].Key })
	return units, nil
}

func (s *Scanner) buildUnit(root, dir string) (domain.Unit, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return domain.Unit{}, zerr.With(zerr.Wrap(err, "failed to relativize project dir"), "path", dir)
	}

	key := filepath.ToSlash(rel)
	if key == "." {
		key = filepath.Base(root)
	}
	category, _, found := strings.Cut(key, "/")
	if !found {
		category = key
	}

	fingerprint, err := s.fp.UnitFingerprint(dir)
	if err != nil {
		return domain.Unit{}, zerr.With(zerr.Wrap(err, "failed to fingerprint project"), "unit", key)
	}

	outputDir := filepath.Join(s.outputDir, filepath.FromSlash(key))
	return domain.Unit{
		Key:         key,
		Category:    category,
		Dir:         dir,
		Fingerprint: fingerprint,
		OutputDir:   outputDir,
		OutputFile:  filepath.Join(outputDir, PrimaryArtifact),
	}, nil
}
