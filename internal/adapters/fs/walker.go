// Package fs provides the file system adapters: project discovery and
// fingerprinting.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker yields files under a root while skipping VCS metadata and
// configured ignore patterns.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all regular files under root in lexical order. Ignore
// patterns are matched against base names with filepath.Match semantics;
// a matching directory is pruned whole. A failed directory read ends the
// walk with a non-nil error; callers must not treat the files seen so far
// as the complete set.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			prune, skipFile := w.match(d, ignores)
			if prune {
				return filepath.SkipDir
			}
			if skipFile || d.IsDir() {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}

			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// match reports whether the entry prunes a whole directory or skips a
// single file.
func (w *Walker) match(d fs.DirEntry, ignores []string) (prune, skipFile bool) {
	name := d.Name()

	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true, false
	}

	for _, ignore := range ignores {
		matched, _ := filepath.Match(ignore, name)
		if matched {
			if d.IsDir() {
				return true, false
			}
			return false, true
		}
	}

	return false, false
}
