// Package main is the entry point for the herd export orchestrator.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/joho/godotenv"
	"go.trai.ch/herd/cmd/herd/commands"
	"go.trai.ch/herd/internal/app"
	"go.trai.ch/herd/internal/core/domain"
	_ "go.trai.ch/herd/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env next to the binary invocation may carry HERD_CONFIG or CI
	// overrides; its absence is the normal case.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A second interrupt stops waiting for in-flight exports.
	go func() {
		<-ctx.Done()
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		os.Exit(130)
	}()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// Failures were already reported per unit.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
