// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/herd/internal/core/domain"

// Scanner discovers exportable project units under a root directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan walks root and returns all discovered units in deterministic
	// (key-sorted) order, with fingerprints computed.
	//
	// Returns domain.ErrScanRootMissing if root does not exist and
	// domain.ErrNoUnits if the walk finds no project markers.
	Scan(root string) ([]domain.Unit, error)
}
