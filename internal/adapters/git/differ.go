// Package git implements change detection against repository history.
package git

import (
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.trai.ch/herd/internal/core/ports"
)

var _ ports.RefDiffer = (*Differ)(nil)

// Differ implements ports.RefDiffer with go-git tree diffs.
//
// It never fails a run: every situation history cannot answer (no
// repository, detached state, shallow clone without the base ref) degrades
// to allDirty, which only ever causes extra builds.
type Differ struct {
	logger ports.Logger
}

// NewDiffer creates a Differ.
func NewDiffer(logger ports.Logger) *Differ {
	return &Differ{logger: logger}
}

// ChangedPaths diffs baseRef against HEAD and returns the touched files as
// absolute paths, deduplicated and sorted.
func (d *Differ) ChangedPaths(root, baseRef string) ([]string, bool, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		d.logger.Warn("no usable repository under " + root + ", treating all units as changed")
		return nil, true, nil
	}

	headRef, err := repo.Head()
	if err != nil {
		d.logger.Warn("repository has no HEAD, treating all units as changed")
		return nil, true, nil
	}
	head, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, true, nil
	}

	base, fellBack := d.resolveBase(repo, head, baseRef)
	if base == nil {
		d.logger.Warn("base reference " + baseRef + " unusable, treating all units as changed")
		return nil, true, nil
	}
	if fellBack && base.Hash == head.Hash {
		// Single-commit history: no base to compare against.
		d.logger.Warn("history too short for " + baseRef + ", treating all units as changed")
		return nil, true, nil
	}
	if base.Hash == head.Hash {
		return nil, false, nil
	}

	paths, err := d.diffPaths(repo, base, head)
	if err != nil {
		d.logger.Warn("tree diff failed, treating all units as changed: " + err.Error())
		return nil, true, nil
	}
	return paths, false, nil
}

// resolveBase resolves baseRef, falling back to the earliest commit
// reachable from head when the ref does not resolve (shallow CI clones).
func (d *Differ) resolveBase(repo *gogit.Repository, head *object.Commit, baseRef string) (base *object.Commit, fellBack bool) {
	if hash, err := repo.ResolveRevision(plumbing.Revision(baseRef)); err == nil {
		if commit, err := repo.CommitObject(*hash); err == nil {
			return commit, false
		}
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash})
	if err != nil {
		return nil, true
	}
	var earliest *object.Commit
	_ = iter.ForEach(func(c *object.Commit) error {
		earliest = c
		return nil
	})
	return earliest, true
}

func (d *Differ) diffPaths(repo *gogit.Repository, base, head *object.Commit) ([]string, error) {
	baseTree, err := base.Tree()
	if err != nil {
		return nil, err
	}
	headTree, err := head.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	wtRoot := worktree.Filesystem.Root()

	seen := make(map[string]struct{})
	for _, change := range changes {
		for _, name := range []string{change.From.Name, change.To.Name} {
			if name == "" {
				continue
			}
			seen[filepath.Join(wtRoot, filepath.FromSlash(name))] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
