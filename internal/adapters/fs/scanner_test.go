package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/fs"
	"go.trai.ch/herd/internal/core/domain"
)

func writeProject(t *testing.T, root string, rel string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, fs.Marker), []byte("[application]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.gd"), []byte("extends Node\n"), 0o644))
	return dir
}

func newScanner(root string) *fs.Scanner {
	walker := fs.NewWalker()
	fp := fs.NewFingerprinter(walker, 10<<20, []string{".godot", ".import"})
	return fs.NewScanner(fp, filepath.Join(root, "build"), []string{".godot", ".import"})
}

func TestScanner_DiscoversSortedUnits(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "puzzles/sokoban")
	writeProject(t, root, "arcade/breakout")
	writeProject(t, root, "puzzles/maze")

	units, err := newScanner(root).Scan(root)
	require.NoError(t, err)
	require.Len(t, units, 3)

	keys := []string{units[0].Key, units[1].Key, units[2].Key}
	assert.Equal(t, []string{"arcade/breakout", "puzzles/maze", "puzzles/sokoban"}, keys)

	assert.Equal(t, "arcade", units[0].Category)
	assert.Equal(t, filepath.Join(root, "arcade", "breakout"), units[0].Dir)
	assert.Equal(t, filepath.Join(root, "build", "arcade", "breakout"), units[0].OutputDir)
	assert.Equal(t, filepath.Join(root, "build", "arcade", "breakout", "index.html"), units[0].OutputFile)
	assert.NotEmpty(t, units[0].Fingerprint)
}

func TestScanner_SkipsOutputTreeAndNestedMarkers(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "arcade/breakout")
	// A marker inside a discovered project must not become a second unit.
	writeProject(t, root, "arcade/breakout/fixtures/demo")
	// A marker inside the export tree must be invisible.
	writeProject(t, root, "build/arcade/breakout")

	units, err := newScanner(root).Scan(root)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "arcade/breakout", units[0].Key)
}

func TestScanner_MissingRoot(t *testing.T) {
	root := t.TempDir()
	_, err := newScanner(root).Scan(filepath.Join(root, "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScanRootMissing))
}

func TestScanner_EmptyRoot(t *testing.T) {
	root := t.TempDir()
	_, err := newScanner(root).Scan(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoUnits))
}

func TestScanner_DeterministicFingerprints(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "arcade/breakout")

	first, err := newScanner(root).Scan(root)
	require.NoError(t, err)
	second, err := newScanner(root).Scan(root)
	require.NoError(t, err)

	assert.Equal(t, first[0].Fingerprint, second[0].Fingerprint)
}
