// Package cmd provides the root command and CLI setup for conform.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"conform.dev/pkg/conform/internal/adapter"
	"conform.dev/pkg/conform/internal/controller"
	"conform.dev/pkg/conform/internal/corpus"
	"conform.dev/pkg/conform/internal/domain"
	"conform.dev/pkg/conform/internal/tools"
)

var workflow domain.Workflow
var ui controller.UI

var (
	debugFlag      bool
	filterFlag     string
	detailFlag     bool
	diffFlag       bool
	acceptFlag     bool
	parallelFlag   int
	corpusRootFlag string
	snapshotsFlag  string
)

func init() {
	configureRootFlags(rootCmd)

	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	workflow = newWorkflow(ui)
}

const rootLongDescription = `Conform runs the toolchain under test over external conformance corpora
(test262, babel, typescript and a local misc corpus), classifies every case,
and compares the aggregated report of each suite against a stored snapshot.

Suites are named <stage>_<corpus>, e.g. parser_test262. A run fails when any
suite regressed against its snapshot; --accept records the new baseline.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conform",
		Short: "Conformance test harness for JavaScript toolchains",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), debugFlag)

			// Corpus and snapshot locations given on the command line replace the ones
			// the workflow was built with.
			if cmd.Flags().Changed(corpusRootFlagName) || cmd.Flags().Changed(snapshotsFlagName) {
				workflow = newWorkflow(ui)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.BoolVar(&debugFlag, debugFlagName, false, "run single-threaded, print each case path and log at debug level")
	flags.StringVarP(&filterFlag, filterFlagName, "f", "", "only run cases whose path contains this text")
	flags.BoolVar(&detailFlag, detailFlagName, false, "print case paths and failure details")
	flags.BoolVar(&diffFlag, diffFlagName, false, "print the diagnostic diff of every mismatch")
	flags.BoolVar(&acceptFlag, acceptFlagName, false, "overwrite stored snapshots with the new reports")

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(runParallelKey), "number of parallel workers (0 uses every CPU)")
	bindFlagToConfig(flags.Lookup(parallelFlagName), runParallelKey)

	flags.StringVar(&corpusRootFlag, corpusRootFlagName, viper.GetString(corpusRootKey), "directory holding the corpus checkouts")
	bindFlagToConfig(flags.Lookup(corpusRootFlagName), corpusRootKey)

	flags.StringVar(&snapshotsFlag, snapshotsFlagName, viper.GetString(snapshotsDirKey), "directory holding the stored snapshots")
	bindFlagToConfig(flags.Lookup(snapshotsFlagName), snapshotsDirKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newWorkflow wires the corpora, stages and infrastructure from the current configuration.
func newWorkflow(ui controller.UI) domain.Workflow {
	root := viper.GetString(corpusRootKey)
	fs := adapter.NewLocalCorpusFSAdapter()
	toolchain := adapter.NewEsbuildToolchain()

	corpora := []domain.Corpus{
		corpus.NewTest262(fs, root),
		corpus.NewBabel(fs, root),
		corpus.NewTypeScript(fs, root),
		corpus.NewMisc(fs, root),
	}

	runtimeClient := adapter.NewHTTPRuntimeClient(
		viper.GetString(runtimeAddrKey),
		time.Duration(viper.GetInt(runtimeTimeoutKey))*time.Second,
	)

	return domain.NewWorkflow(
		corpora,
		newStages(toolchain, runtimeClient),
		adapter.NewFSSnapshotStore(filepath.Clean(viper.GetString(snapshotsDirKey))),
		ui,
		adapter.NewLocalRuntimeProcessAdapter(),
	)
}

func newStages(toolchain adapter.Toolchain, client adapter.RuntimeClient) []domain.Stage {
	all := []string{corpus.Test262Name, corpus.BabelName, corpus.TypeScriptName, corpus.MiscName}
	javascript := []string{corpus.Test262Name, corpus.BabelName}
	transform := adapter.TransformOptions{Target: viper.GetString(transformTargetKey)}

	return []domain.Stage{
		{Name: tools.StageParser, Default: true, Corpora: all, Tool: tools.NewParser(toolchain)},
		{Name: tools.StageSemantic, Default: true, Corpora: all, Tool: tools.NewSemantic(toolchain)},
		{Name: tools.StageCodegen, Default: true, Corpora: all, Tool: tools.NewCodegen(toolchain)},
		{Name: tools.StageTransformer, Default: true, Corpora: all, Tool: tools.NewTransformer(toolchain, transform)},
		{Name: tools.StageTranspile, Default: true, Corpora: []string{corpus.TypeScriptName}, Tool: tools.NewTranspiler(toolchain)},
		{Name: tools.StageMinifier, Default: true, Corpora: javascript, Tool: tools.NewMinifier(toolchain)},
		{Name: tools.StagePrettier, Corpora: javascript, Tool: tools.NewPrettier(toolchain)},
		{Name: tools.StageRuntime, Corpora: []string{corpus.Test262Name}, Tool: tools.NewRuntime(toolchain, client)},
	}
}

// runArgs collects the run options shared by run and runtime.
func runArgs(stages []string) (domain.RunArgs, error) {
	corpora, err := corpusConfigs()
	if err != nil {
		return domain.RunArgs{}, err
	}

	if len(stages) == 0 {
		stages = viper.GetStringSlice(runStagesKey)
	}

	return domain.RunArgs{
		Options: domain.Options{
			Debug:  debugFlag,
			Filter: strings.TrimSpace(filterFlag),
			Detail: detailFlag,
			Diff:   diffFlag,
			Accept: acceptFlag,
		},
		Stages:   stages,
		Parallel: viper.GetInt(runParallelKey),
		Corpora:  corpora,
	}, nil
}
