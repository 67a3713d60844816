package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/refresh"
)

// NewStatusCmd creates the `status` command, reporting on the workspace's
// IDE integration: the compile database and extractor availability.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the compile_commands.json integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}

			root, err := resolveWorkspace()
			if err != nil {
				return handler.Handle(err)
			}

			fmt.Printf("Workspace: %s\n", root)

			ccPath := filepath.Join(root, cfg.OutputFile)
			if info, err := os.Stat(ccPath); err == nil {
				sizeKB := float64(info.Size()) / 1024
				mtime := info.ModTime().Format("2006-01-02 15:04:05")

				if data, err := os.ReadFile(ccPath); err == nil {
					var entries []json.RawMessage
					if json.Unmarshal(data, &entries) == nil {
						fmt.Printf("%s: %d entries, %.1fKB, updated %s\n", cfg.OutputFile, len(entries), sizeKB, mtime)
					} else {
						fmt.Printf("%s: %.1fKB, updated %s\n", cfg.OutputFile, sizeKB, mtime)
					}
				}
			} else {
				fmt.Printf("%s: Not found\n", cfg.OutputFile)
			}

			runner := command.NewRunner()
			client := bazel.NewClient(runner, root, cfg.BazelPath)

			if client.Probe(cmd.Context(), refresh.PrimaryGenerator) {
				fmt.Println("hedron_compile_commands: Installed")
			} else {
				fmt.Println("hedron_compile_commands: Not found")
			}

			if client.Probe(cmd.Context(), refresh.FallbackGenerator) {
				fmt.Printf("Local refresh target: Available (%s)\n", refresh.FallbackGenerator)
			}

			return nil
		},
	}
}
