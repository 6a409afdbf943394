package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/herd/internal/adapters/fs"
	"go.trai.ch/herd/internal/core/domain"
)

func TestFingerprinter_ContentChangeInvalidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.gd")
	require.NoError(t, os.WriteFile(path, []byte("extends Node\n"), 0o644))

	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, nil)

	before, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("extends Node2D\n"), 0o644))
	after, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFingerprinter_RenameInvalidates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.gd"), []byte("x"), 0o644))

	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, nil)

	before, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "a.gd"), filepath.Join(dir, "b.gd")))
	after, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFingerprinter_IgnoredDirsDoNotParticipate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.gd"), []byte("x"), 0o644))

	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, []string{".godot"})

	before, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	scratch := filepath.Join(dir, ".godot")
	require.NoError(t, os.MkdirAll(scratch, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(scratch, "editor_state"), []byte("noise"), 0o644))

	after, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestFingerprinter_LargeFilesUseSignature(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.bin")
	require.NoError(t, os.WriteFile(path, []byte("aaaa"), 0o644))

	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	// Threshold of 1 byte: everything is "large", so only mtime+size count.
	fp := fs.NewFingerprinter(fs.NewWalker(), 1, nil)

	before, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)

	// Same size, same mtime, different bytes: signature cannot tell.
	require.NoError(t, os.WriteFile(path, []byte("bbbb"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	after, err := fp.UnitFingerprint(dir)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Threshold 0 forces content hashing and sees the difference.
	full := fs.NewFingerprinter(fs.NewWalker(), 0, nil)
	hashed, err := full.UnitFingerprint(dir)
	require.NoError(t, err)
	assert.NotEqual(t, before, hashed)
}

func TestFingerprinter_UnseenFilesNeverFingerprint(t *testing.T) {
	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, nil)

	// A directory the walk cannot enumerate must surface as an error, not
	// as a fingerprint over whatever subset happened to be readable.
	_, err := fp.UnitFingerprint(filepath.Join(t.TempDir(), "vanished"))
	require.Error(t, err)
}

func TestFingerprinter_OutputDigest(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "game.wasm"), []byte("wasm"), 0o644))

	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, nil)
	unit := &domain.Unit{Key: "arcade/breakout", OutputDir: outDir}

	digest, size, err := fp.OutputDigest(unit)
	require.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.Equal(t, int64(len("<html></html>")+len("wasm")), size)
}

func TestFingerprinter_OutputDigestMissing(t *testing.T) {
	fp := fs.NewFingerprinter(fs.NewWalker(), 10<<20, nil)
	unit := &domain.Unit{Key: "arcade/breakout", OutputDir: filepath.Join(t.TempDir(), "nope")}

	_, _, err := fp.OutputDigest(unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrArtifactMissing))
}
