package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/adapters/config"
	"go.trai.ch/herd/internal/adapters/logger"
	"go.trai.ch/herd/internal/core/ports"
)

// NodeID is the unique identifier for the exporter Graft node.
const NodeID graft.ID = "adapter.executor"

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewExporter(Options{
				Binary:         cfg.Exporter.Binary,
				Preset:         cfg.Exporter.Preset,
				Timeout:        cfg.Exporter.Timeout,
				MaxOutputBytes: cfg.Exporter.MaxOutputBytes,
				EnsurePreset:   cfg.Exporter.EnsurePreset,
			}, log), nil
		},
	})
}
