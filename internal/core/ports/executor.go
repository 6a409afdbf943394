package ports

import (
	"context"

	"go.trai.ch/herd/internal/core/domain"
)

// Executor runs a single export attempt for one unit.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute invokes the exporter subprocess once and returns a Result
	// with Kind set. It never retries; the retry policy lives in the
	// scheduler. The returned Result carries the bounded output tail of
	// the attempt.
	Execute(ctx context.Context, unit *domain.Unit) domain.Result
}
