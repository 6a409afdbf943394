package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/herd/internal/adapters/config"
	"go.trai.ch/herd/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
	// ScannerNodeID is the unique identifier for the scanner Graft node.
	ScannerNodeID graft.ID = "adapter.fs.scanner"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID, config.NodeID},
		Run: func(ctx context.Context) (*Fingerprinter, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			return NewFingerprinter(walker, cfg.Fingerprint.LargeFileThreshold, cfg.Fingerprint.Exclude), nil
		},
	})

	graft.Register(graft.Node[ports.Scanner]{
		ID:        ScannerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FingerprinterNodeID, config.NodeID},
		Run: func(ctx context.Context) (ports.Scanner, error) {
			fp, err := graft.Dep[*Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			return NewScanner(fp, cfg.OutputDir, cfg.Fingerprint.Exclude), nil
		},
	})
}
