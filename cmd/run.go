package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

const runLongDescription = `Run the named stages over every corpus they apply to (default: parser,
semantic, codegen, transformer, transpile and minifier). The runtime stage runs
through the runtime command.

Each suite report is compared with its stored snapshot. The command fails when
a case that used to pass now fails or a failure got worse. Pass --accept to
record the new reports as the baseline.`

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [stage...]",
		Short: "Run conformance suites and compare them with the stored snapshots",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := runArgs(args)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true

			return workflow.Run(context.Background(), run)
		},
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
