package shell

import (
	"strings"

	"go.trai.ch/herd/internal/core/domain"
)

// fatalPatterns identify failures that retrying cannot fix. Checked before
// the transient table because exporter error dumps often contain generic
// resource noise after the real cause.
var fatalPatterns = []string{
	"no export template",
	"export templates are missing",
	"preset not found",
	"unknown preset",
	"invalid export preset",
	"permission denied",
	"corrupt",
	"invalid project",
	"couldn't load project",
}

// transientPatterns is the allow-list of failures worth retrying.
var transientPatterns = []string{
	"too many open files",
	"cannot allocate memory",
	"out of memory",
	"resource temporarily unavailable",
	"invalid argument",
	"cannot fork",
}

// Classify maps exporter output text to an ErrorKind. Unmatched output is
// fatal: retrying an unknown failure triples the cost of every genuinely
// broken project.
func Classify(output string) domain.ErrorKind {
	text := strings.ToLower(output)

	for _, pattern := range fatalPatterns {
		if strings.Contains(text, pattern) {
			return domain.KindFatal
		}
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(text, pattern) {
			return domain.KindTransient
		}
	}

	return domain.KindFatal
}
