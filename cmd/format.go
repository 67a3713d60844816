package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/buildifier"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
)

// NewFormatCmd creates the `format` command: buildifier over the given
// Starlark files. Formatting is best-effort; a missing buildifier is not
// an error.
func NewFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <files...>",
		Short: "Format BUILD and .bzl files with buildifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			formatter := buildifier.NewFormatter(command.NewRunner(), cfg.BuildifierPath)
			checkOnly, _ := cmd.Flags().GetBool("check")

			unformatted := 0
			for _, path := range args {
				if checkOnly {
					ok, err := formatter.Check(cmd.Context(), path)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Printf("%s: needs formatting\n", path)
						unformatted++
					}
					continue
				}

				changed, err := formatter.FormatFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				if changed {
					logger.Infof("Formatted %s", path)
				}
			}

			if checkOnly && unformatted > 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("%d file(s) need formatting", unformatted)
			}
			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Report unformatted files without rewriting them")

	return cmd
}
