package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const initLongDescription = `Create conform.yaml in the current working directory, populated with the
current defaults so it can be edited manually. The main keys are:

  corpus.root       directory holding the test262, babel, typescript and misc checkouts
  snapshots.dir     directory the <suite>.snap files are stored in
  run.parallel      worker count of the parallel policy (0 uses every CPU)
  run.stages        stages run when none is named (empty means the default stages)
  corpora.<name>    per-corpus skip and expect_fail path lists
  transform.target  language level the transformer stage lowers to
  runtime.*         command, script, address and timeouts of the runtime process

Every key can also be set through a CONFORM_ environment variable, e.g.
CONFORM_SNAPSHOTS_DIR.`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default conform.yaml configuration file",
		Long:  initLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if err := viper.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
