package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"conform.dev/pkg/conform/internal/domain"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [suite...]",
		Short: "View stored snapshots",
		Long:  "View the stored snapshot of the given suites (default: every stored suite).",
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.View(context.Background(), domain.ViewArgs{
				Suites: args,
				Detail: detailFlag,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
