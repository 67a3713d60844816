package cmd

import (
	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/refresh"
	"github.com/srikantharun/bazel-ide-toolkit/status"
)

// NewRefreshCmd creates the `refresh` command: a one-shot regeneration of
// compile_commands.json.
func NewRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate compile_commands.json once",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}
			if targets, _ := cmd.Flags().GetString("targets"); targets != "" {
				cfg.Targets = targets
			}
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				cfg.OutputFile = output
			}

			root, err := resolveWorkspace()
			if err != nil {
				return handler.Handle(err)
			}

			runner := command.NewRunner()
			client := bazel.NewClient(runner, root, cfg.BazelPath)
			reporter := status.NewReporter(nil)
			notifier := &status.LogNotifier{Logger: logger}
			coordinator := refresh.New(runner, client, reporter, notifier)

			err = coordinator.Refresh(cmd.Context(), refresh.Options{
				WorkspaceRoot: root,
				BazelPath:     cfg.BazelPath,
				OutputFile:    cfg.OutputFile,
			})
			if err != nil {
				return handler.Handle(err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("targets", "t", "", "Bazel targets to include (default: //...)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: compile_commands.json)")

	return cmd
}
