package cmd

import (
	"fmt"
	"strings"

	"portfolio-cms/pkg/templates"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Lists the section types",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := templates.Builtin()
		if appConfig.TemplatesFile != "" {
			if _, err := templates.LoadDefinitions(registry, appConfig.TemplatesFile); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		for _, t := range registry.List() {
			fmt.Fprintf(out, "%-13s %-22s %s\n", t.Type, t.Label, strings.Join(t.Schema.FieldNames(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
