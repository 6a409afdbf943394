package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	progrockadapter "go.trai.ch/herd/internal/adapters/telemetry/progrock"
	"go.trai.ch/herd/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if interactive() {
				return progrockadapter.New(), nil
			}
			return NewNoOp(), nil
		},
	})
}

// interactive reports whether stdout is a terminal outside CI. Plain log
// output serves CI better than a progress tape.
func interactive() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
