package detect

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/herd/internal/adapters/git"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/herd/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/herd/internal/core/ports"
)

// NodeID is the unique identifier for the change detector Graft node.
const NodeID graft.ID = "engine.detector"

func init() {
	graft.Register(graft.Node[*Detector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, git.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Detector, error) {
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}

			differ, err := graft.Dep[ports.RefDiffer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewDetector(store, differ, log), nil
		},
	})
}
