// Package domain contains the core types of the export orchestrator.
package domain

import "path"

// Unit is one independently exportable project discovered by the inventory
// scan. A Unit is immutable once the scan that produced it has finished.
type Unit struct {
	// Key is the stable identity of the unit, "<category>/<name>" derived
	// from the project directory relative to the scan root.
	Key string
	// Category is the first path segment of the key.
	Category string
	// Dir is the absolute path of the project directory.
	Dir string
	// Fingerprint is the hex digest of the unit's significant source files.
	Fingerprint string
	// OutputDir is the absolute directory the exporter writes into.
	OutputDir string
	// OutputFile is the primary artifact inside OutputDir. Its presence is
	// part of the success criterion for an export.
	OutputFile string
}

// Name returns the last segment of the unit key.
func (u *Unit) Name() string {
	return path.Base(u.Key)
}
