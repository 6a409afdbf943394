package ports

// RefDiffer lists the files changed between a base reference and the
// current head of the repository containing root.
//
//go:generate go run go.uber.org/mock/mockgen -source=vcs.go -destination=mocks/mock_vcs.go -package=mocks
type RefDiffer interface {
	// ChangedPaths returns the absolute paths touched between baseRef and
	// HEAD. When the history cannot answer the question (no repository,
	// unresolvable ref with no usable fallback, diff failure) it returns
	// allDirty=true instead of an error: change detection degrades to
	// rebuilding, never to skipping.
	ChangedPaths(root, baseRef string) (paths []string, allDirty bool, err error)
}
