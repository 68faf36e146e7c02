package cmd

import (
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const esbuildModulePath = "github.com/evanw/esbuild"

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the conform build version, the esbuild version under test and the Go version.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			writeVersion(cmd.OutOrStdout(), info)
		},
	}
}

func writeVersion(w io.Writer, info *debug.BuildInfo) {
	if info == nil || info.Main.Version == "" {
		_, _ = io.WriteString(w, "version: unknown\n")
		return
	}

	line := func(name, value string) {
		_, _ = io.WriteString(w, name+" version\t "+value+"\n")
	}

	line("conform", info.Main.Version)

	for _, dep := range info.Deps {
		if dep.Path == esbuildModulePath {
			line("esbuild", dep.Version)
		}
	}

	line("go", info.GoVersion)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
