package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun wires the real dependency graph against a one-project fleet and a
// fake exporter. Exercised once because Graft caches its nodes per process.
func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tmp := t.TempDir()

	script := filepath.Join(tmp, "fake-godot.sh")
	content := "#!/bin/sh\n" +
		"for a in \"$@\"; do out=$a; done\n" +
		"mkdir -p \"$(dirname \"$out\")\"\n" +
		"printf 'export ok' > \"$out\"\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0o700)) //nolint:gosec // test helper script

	project := filepath.Join(tmp, "fleet", "arcade", "breakout")
	require.NoError(t, os.MkdirAll(project, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(project, "project.godot"), []byte("[application]\n"), 0o600))

	config := "root: fleet\n" +
		"exporter:\n" +
		"  binary: " + script + "\n" +
		"  ensure_preset: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "herd.yaml"), []byte(config), 0o600))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	defer func() { _ = os.Chdir(cwd) }()

	os.Args = []string{"herd", "build", "--jobs", "1"}

	exitCode := run()
	assert.Equal(t, 0, exitCode)
	assert.FileExists(t, filepath.Join(tmp, "fleet", "build", "arcade", "breakout", "index.html"))
}
