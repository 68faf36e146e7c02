package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"conform.dev/pkg/conform/internal/adapter"
	"conform.dev/pkg/conform/internal/domain"
)

// runtimeCmd represents the runtime command.
var runtimeCmd = newRuntimeCmd()

func newRuntimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runtime",
		Short: "Execute generated test262 code in an external runtime process",
		Long: `Spawn the configured runtime process, wait until it accepts requests and run
the runtime_test262 suite against it. The process is stopped when the run ends.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, err := runArgs(nil)
			if err != nil {
				return err
			}

			spec, err := processSpec()
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true

			return workflow.RunRuntime(context.Background(), domain.RuntimeArgs{
				RunArgs: run,
				Process: spec,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(runtimeCmd)
}

// processSpec builds the runtime process command line: the configured command
// followed by the runtime script.
func processSpec() (adapter.ProcessSpec, error) {
	fields := strings.Fields(viper.GetString(runtimeCommandKey))
	if len(fields) == 0 {
		return adapter.ProcessSpec{}, fmt.Errorf("%q is not configured", runtimeCommandKey)
	}

	args := fields[1:]
	if script := strings.TrimSpace(viper.GetString(runtimeScriptKey)); script != "" {
		args = append(args, script)
	}

	return adapter.ProcessSpec{
		Command:      fields[0],
		Args:         args,
		Addr:         strings.TrimRight(viper.GetString(runtimeAddrKey), "/"),
		ReadyTimeout: time.Duration(viper.GetInt(runtimeReadyTimeoutKey)) * time.Second,
	}, nil
}
