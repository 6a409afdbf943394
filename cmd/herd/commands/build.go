package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/herd/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export every project that changed since the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			force, _ := cmd.Flags().GetBool("force")
			baseRef, _ := cmd.Flags().GetString("base-ref")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			killOnInterrupt, _ := cmd.Flags().GetBool("kill-on-interrupt")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Jobs:            jobs,
				Force:           force,
				BaseRef:         baseRef,
				DryRun:          dryRun,
				FailFast:        failFast,
				KillOnInterrupt: killOnInterrupt,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel exports (0 = plan from host resources)")
	cmd.Flags().BoolP("force", "f", false, "Export every project, bypassing the cache")
	cmd.Flags().String("base-ref", "", "Also export projects touched since this git revision")
	cmd.Flags().Bool("dry-run", false, "List what would be exported without running anything")
	cmd.Flags().Bool("fail-fast", false, "Stop dispatching new exports after the first fatal failure")
	cmd.Flags().Bool("kill-on-interrupt", false, "Kill in-flight exports on interrupt instead of letting them finish")
	return cmd
}
