package cmd

import (
	"fmt"

	"portfolio-cms/pkg/services"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// indexKeys mirrors the JSON keys of the index endpoints.
var indexKeys = map[string]string{"blog": "posts", "concepts": "concepts"}

var indexCmd = &cobra.Command{
	Use:       "index [blog|concepts]",
	Short:     "Prints the published item index",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: services.Folders,
	RunE: func(cmd *cobra.Command, args []string) error {
		index := services.NewIndex(appConfig.RepoPath, logger.Named("index"))
		folders := services.Folders
		if len(args) == 1 {
			folders = args
		}

		out := map[string][]string{}
		for _, folder := range folders {
			items, err := index.List(folder)
			if err != nil {
				return err
			}
			out[indexKeys[folder]] = items
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
