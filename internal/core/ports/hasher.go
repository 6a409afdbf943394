package ports

import "go.trai.ch/herd/internal/core/domain"

// Hasher computes digests over a unit's exported artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// OutputDigest hashes the artifact tree under the unit's output
	// directory and returns the digest together with the total byte size.
	OutputDigest(unit *domain.Unit) (digest string, size int64, err error)
}
