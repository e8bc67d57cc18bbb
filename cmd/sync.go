package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pulls published items into the local checkout",
	Long: `The sync command copies every blog and concept file that differs from the
publish target into repo_path, which the public pages and the index read.
With the local target there is nothing to pull.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, logger)
		if err != nil {
			return err
		}
		res, err := a.mirror.Sync(ctx)
		out := cmd.OutOrStdout()
		for _, p := range res.Updated {
			fmt.Fprintln(out, "pulled", p)
		}
		if err != nil {
			return fmt.Errorf("sync stopped: %w", err)
		}
		fmt.Fprintf(out, "%d unchanged\n", res.Unchanged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
