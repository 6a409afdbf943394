package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// presetFilename is the exporter's preset registry inside a project.
const presetFilename = "export_presets.cfg"

var presetIndexRe = regexp.MustCompile(`\[preset\.(\d+)\]`)

// ensurePreset makes sure the project declares an export preset with the
// given name. A missing registry gets a minimal web preset; an existing
// registry without the preset gets one appended under the next free index.
// An existing preset is left untouched.
func ensurePreset(projectDir, preset string) error {
	path := filepath.Join(projectDir, presetFilename)

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from our own scan
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, []byte(renderPreset(0, preset)), 0o644) //nolint:gosec // Project file
		}
		return zerr.With(zerr.Wrap(err, "failed to read preset registry"), "path", path)
	}

	if strings.Contains(string(data), `name="`+preset+`"`) {
		return nil
	}

	entry := "\n" + renderPreset(nextPresetIndex(string(data)), preset)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // Project file
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open preset registry"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	if _, err := f.WriteString(entry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to append preset"), "path", path)
	}
	return nil
}

func nextPresetIndex(content string) int {
	next := 0
	for _, match := range presetIndexRe.FindAllStringSubmatch(content, -1) {
		if n, err := strconv.Atoi(match[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

func renderPreset(index int, name string) string {
	return fmt.Sprintf(`[preset.%[1]d]

name="%[2]s"
platform="Web"
runnable=true
export_filter="all_resources"
include_filter=""
exclude_filter=""
export_path=""

[preset.%[1]d.options]

custom_template/debug=""
custom_template/release=""
html/custom_html_shell=""
html/head_include=""
`, index, name)
}
