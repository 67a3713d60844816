package main

import (
	"os"

	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"bazel-ide",
		"Keep compile_commands.json current and wrap common bazel workflows",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewRefreshCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewBuildCmd())
	rootCmd.AddCommand(cmd.NewTestCmd())
	rootCmd.AddCommand(cmd.NewRunCmd())
	rootCmd.AddCommand(cmd.NewFormatCmd())
	rootCmd.AddCommand(cmd.NewQueryCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
