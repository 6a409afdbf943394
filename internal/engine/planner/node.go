package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/adapters/host"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/herd/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/herd/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{host.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Planner, error) {
			probe, err := graft.Dep[ports.HostProbe](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewPlanner(probe, log), nil
		},
	})
}
