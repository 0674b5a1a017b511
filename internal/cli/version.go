package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/intentgate/internal/classifier"
)

const version = "0.3.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"version": version,
			"name":    "intentgate",
			"models":  classifier.Available(),
		})
	},
}
