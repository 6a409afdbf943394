// Package commands implements the CLI commands for the herd export
// orchestrator.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/herd/internal/app"
	"go.trai.ch/herd/internal/build"
)

// Runner is the application surface the CLI drives.
type Runner interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Clean() error
}

// CLI represents the command line interface for herd.
type CLI struct {
	app     Runner
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Runner) *CLI {
	rootCmd := &cobra.Command{
		Use:           "herd",
		Short:         "Web export orchestrator for fleets of Godot projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
