package shell_test

import (
	"testing"

	"go.trai.ch/herd/internal/adapters/shell"
	"go.trai.ch/herd/internal/core/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   domain.ErrorKind
	}{
		{"missing template", "ERROR: No export template found at expected path.", domain.KindFatal},
		{"templates missing", "Export templates are missing, download them in the editor.", domain.KindFatal},
		{"unknown preset", "ERROR: Unknown preset 'Web'.", domain.KindFatal},
		{"permission denied", "open: permission denied", domain.KindFatal},
		{"corrupt project", "ERROR: Corrupt project.godot detected", domain.KindFatal},
		{"cannot load project", "ERROR: Couldn't load project data at path", domain.KindFatal},
		{"fd exhaustion", "socket: too many open files", domain.KindTransient},
		{"oom", "Cannot allocate memory", domain.KindTransient},
		{"oom alt", "terminate called after out of memory", domain.KindTransient},
		{"eagain", "fork: Resource temporarily unavailable", domain.KindTransient},
		{"einval", "mmap failed: Invalid argument", domain.KindTransient},
		{"fork", "sh: cannot fork", domain.KindTransient},
		{"unmatched", "something inexplicable happened", domain.KindFatal},
		{"empty", "", domain.KindFatal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shell.Classify(tc.output); got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.output, got, tc.want)
			}
		})
	}
}

func TestClassify_FatalWinsOverTransientNoise(t *testing.T) {
	// Error dumps often mention resource noise after the real cause.
	output := "ERROR: No export template found.\nWARNING: cannot allocate memory for preview"
	if got := shell.Classify(output); got != domain.KindFatal {
		t.Errorf("Classify = %s, want fatal", got)
	}
}
