package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/herd/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the projects a build would export, without exporting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			force, _ := cmd.Flags().GetBool("force")
			baseRef, _ := cmd.Flags().GetString("base-ref")
			return c.app.Run(cmd.Context(), app.RunOptions{
				DryRun:  true,
				Jobs:    jobs,
				Force:   force,
				BaseRef: baseRef,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Preview with this worker count instead of planning from host resources")
	cmd.Flags().BoolP("force", "f", false, "Plan as if the cache were empty")
	cmd.Flags().String("base-ref", "", "Also plan projects touched since this git revision")
	return cmd
}
