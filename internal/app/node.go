package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/herd/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/herd/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/detect"
	"go.trai.ch/herd/internal/engine/planner"
	"go.trai.ch/herd/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the top-level objects the entry point needs.
type Components struct {
	App    *App
	Logger ports.Logger
	Config *config.Config
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ScannerNodeID,
			detect.NodeID,
			planner.NodeID,
			scheduler.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	scanner, err := graft.Dep[ports.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	detector, err := graft.Dep[*detect.Detector](ctx)
	if err != nil {
		return nil, err
	}

	plan, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}

	sink, err := graft.Dep[ports.MetricsSink](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings := Settings{
		Root:        cfg.Root,
		OutputDir:   cfg.OutputDir,
		CacheFile:   cfg.CacheFile,
		AllowEmpty:  cfg.AllowEmpty,
		MaxAttempts: cfg.Exporter.MaxAttempts,
		Limits: planner.Limits{
			MemoryPerJob:    cfg.Planner.MemoryPerJob,
			FDsPerJob:       cfg.Planner.FDsPerJob,
			ReservedCores:   cfg.Planner.ReservedCores,
			CIReservedCores: cfg.Planner.CIReservedCores,
		},
	}

	return New(settings, scanner, detector, plan, sched, store, sink, tel, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
		Config: cfg,
	}, nil
}
