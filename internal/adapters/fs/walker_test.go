package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/fs"
)

func collectFiles(t *testing.T, root string, ignores []string) []string {
	t.Helper()
	var files []string
	for path, err := range fs.NewWalker().WalkFiles(root, ignores) {
		require.NoError(t, err)
		files = append(files, path)
	}
	return files
}

func TestWalker_YieldsFilesAndPrunesIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".godot"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".godot", "state"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.gd"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scene.tscn"), []byte("x"), 0o644))

	files := collectFiles(t, root, []string{".godot"})

	assert.Equal(t, []string{
		filepath.Join(root, "main.gd"),
		filepath.Join(root, "scene.tscn"),
	}, files)
}

func TestWalker_MissingRootYieldsError(t *testing.T) {
	var walkErr error
	var files []string
	for path, err := range fs.NewWalker().WalkFiles(filepath.Join(t.TempDir(), "nope"), nil) {
		if err != nil {
			walkErr = err
			continue
		}
		files = append(files, path)
	}

	require.Error(t, walkErr)
	assert.Empty(t, files)
}
