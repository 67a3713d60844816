package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/config"
	"github.com/srikantharun/bazel-ide-toolkit/status"
)

// NewBuildCmd creates the `build` command.
func NewBuildCmd() *cobra.Command {
	return newActionCmd(bazel.ActionBuild, "Build a Bazel target with the configured build flags")
}

// NewTestCmd creates the `test` command.
func NewTestCmd() *cobra.Command {
	return newActionCmd(bazel.ActionTest, "Test a Bazel target with the configured test flags")
}

// NewRunCmd creates the `run` command.
func NewRunCmd() *cobra.Command {
	return newActionCmd(bazel.ActionRun, "Run a Bazel target with the configured run flags")
}

func newActionCmd(action bazel.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <target>", action),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}

			root, err := resolveWorkspace()
			if err != nil {
				return handler.Handle(err)
			}

			runner := command.NewRunner()
			notifier := &status.LogNotifier{Logger: logger}
			invoker := bazel.NewInvoker(runner, &consoleSink{}, notifier)

			outcome, err := invoker.BuildOrTestOrRun(cmd.Context(), action, args[0], bazel.InvokeOptions{
				WorkspaceRoot: root,
				BazelPath:     cfg.BazelPath,
				Flags:         actionFlags(cfg, action),
			})
			if err != nil {
				return handler.Handle(err)
			}
			if !outcome.Success() {
				// Notification already surfaced; propagate the exit status.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return fmt.Errorf("bazel %s exited with code %d", action, outcome.ExitCode)
			}
			return nil
		},
	}
}

func actionFlags(cfg config.Config, action bazel.Action) []string {
	switch action {
	case bazel.ActionBuild:
		return cfg.BuildFlags
	case bazel.ActionTest:
		return cfg.TestFlags
	case bazel.ActionRun:
		return cfg.RunFlags
	default:
		return nil
	}
}
