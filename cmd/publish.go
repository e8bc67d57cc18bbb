package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dryRun bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publishes the stored draft",
	Long: `The publish command uploads the artifact set of the stored draft to the
configured target. With --dry-run it only reports which files would be
created, updated or left unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, logger)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if dryRun {
			plan, err := a.workspace.Plan(ctx)
			if err != nil {
				return err
			}
			for _, e := range plan {
				fmt.Fprintf(out, "%-9s %s\n", e.Action, e.Path)
			}
			return nil
		}

		res, err := a.workspace.Publish(ctx)
		for _, p := range res.Written {
			fmt.Fprintln(out, "wrote", p)
		}
		if err != nil {
			return fmt.Errorf("publish stopped: %w", err)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the plan without uploading")
	rootCmd.AddCommand(publishCmd)
}
