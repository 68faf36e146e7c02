package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"conform.dev/pkg/conform/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [corpus...]",
		Short: "List the discovered cases of each corpus",
		Long: `Discover the given corpora (default: all) and print how many fixtures, units,
expected failures and skipped paths each one has.`,
		RunE: func(_ *cobra.Command, args []string) error {
			corpora, err := corpusConfigs()
			if err != nil {
				return err
			}

			return workflow.List(context.Background(), domain.ListArgs{
				Names:   args,
				Corpora: corpora,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
