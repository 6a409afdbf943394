// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/herd/internal/adapters/cas"
	_ "go.trai.ch/herd/internal/adapters/config"
	_ "go.trai.ch/herd/internal/adapters/fs"
	_ "go.trai.ch/herd/internal/adapters/git"
	_ "go.trai.ch/herd/internal/adapters/host"
	_ "go.trai.ch/herd/internal/adapters/logger"
	_ "go.trai.ch/herd/internal/adapters/metrics"
	_ "go.trai.ch/herd/internal/adapters/shell"
	_ "go.trai.ch/herd/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/herd/internal/app"
	_ "go.trai.ch/herd/internal/engine/detect"
	_ "go.trai.ch/herd/internal/engine/planner"
	_ "go.trai.ch/herd/internal/engine/scheduler"
)
