package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/refresh"
	"github.com/srikantharun/bazel-ide-toolkit/status"
	"github.com/srikantharun/bazel-ide-toolkit/watch"
)

// NewWatchCmd creates the `watch` command: the long-running daemon that
// keeps compile_commands.json current as build files change.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for BUILD file changes and auto-refresh compile_commands.json",
		Long: `Watches the workspace for changes to BUILD, WORKSPACE, MODULE.bazel and
.bzl files. Bursts of changes are debounced into a single refresh; a refresh
requested while one is running is dropped, not queued.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if targets, _ := cmd.Flags().GetString("targets"); targets != "" {
				cfg.Targets = targets
			}
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				cfg.OutputFile = output
			}
			if cmd.Flags().Changed("debounce") {
				ms, _ := cmd.Flags().GetInt("debounce")
				cfg.DebounceMs = &ms
			}

			root, err := resolveWorkspace()
			if err != nil {
				return cli.NewErrorHandler(false).Handle(err)
			}

			logger.Infof("Workspace: %s", root)
			logger.Infof("Targets: %s", cfg.Targets)
			logger.Infof("Output: %s", cfg.OutputFile)
			logger.Infof("Debounce: %v", cfg.Debounce())

			runner := command.NewRunner()
			client := bazel.NewClient(runner, root, cfg.BazelPath)
			reporter := status.NewReporter(func(p status.Projection) {
				fmt.Printf("%s  %s\n", p.Text, p.Tooltip)
			})
			notifier := &status.LogNotifier{Logger: logger}
			coordinator := refresh.New(runner, client, reporter, notifier)

			opts := refresh.Options{
				WorkspaceRoot: root,
				BazelPath:     cfg.BazelPath,
				OutputFile:    cfg.OutputFile,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			debouncer := watch.NewDebouncer(cfg.Debounce(), func() {
				_ = coordinator.Refresh(ctx, opts)
			})
			defer debouncer.Stop()

			watcher, err := watch.NewWatcher(root, func() {
				// The debounce window opening is the "pending" state.
				if !coordinator.Running() {
					reporter.SetState(status.StatePending)
				}
				debouncer.Signal()
			})
			if err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer watcher.Close()

			if initial, _ := cmd.Flags().GetBool("initial-refresh"); initial {
				_ = coordinator.Refresh(ctx, opts)
			}

			logger.Info("Watching for BUILD file changes... (Ctrl+C to stop)")
			watcher.Start(ctx)

			// Let an in-flight refresh release its state before exiting.
			for coordinator.Running() {
				time.Sleep(50 * time.Millisecond)
			}
			logger.Info("Stopping...")
			return nil
		},
	}

	cmd.Flags().StringP("targets", "t", "", "Bazel targets to include (default: //...)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: compile_commands.json)")
	cmd.Flags().IntP("debounce", "d", 0, "Debounce delay in milliseconds (default: 2000)")
	cmd.Flags().Bool("initial-refresh", true, "Refresh once on startup")

	return cmd
}
