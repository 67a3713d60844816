package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/cli"
	"github.com/srikantharun/bazel-ide-toolkit/command"
)

// NewQueryCmd creates the `query` command and its convenience forms for
// dependency introspection and target discovery.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [expression]",
		Short: "Run a bazel query and print matching labels",
		Long: `Runs a bazel query with --output=label. The convenience flags replace
the expression argument:

  --deps <target>    direct dependencies of a target
  --rdeps <target>   direct reverse dependencies of a target
  --kind <regex>     all targets of a matching rule kind
  --owner <path>     the rule that owns a workspace-relative source file`,
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

			client := bazel.NewClient(command.NewRunner(), root, cfg.BazelPath)
			ctx := cmd.Context()

			deps, _ := cmd.Flags().GetString("deps")
			rdeps, _ := cmd.Flags().GetString("rdeps")
			kind, _ := cmd.Flags().GetString("kind")
			owner, _ := cmd.Flags().GetString("owner")

			var labels []string
			switch {
			case deps != "":
				labels, err = client.Deps(ctx, deps)
			case rdeps != "":
				labels, err = client.Rdeps(ctx, rdeps)
			case kind != "":
				labels, err = client.TargetsOfKind(ctx, kind)
			case owner != "":
				var label string
				label, err = client.OwningTarget(ctx, owner)
				if label != "" {
					labels = []string{label}
				}
			case len(args) == 1:
				labels, err = client.Query(ctx, args[0])
			default:
				return fmt.Errorf("provide a query expression or one of --deps/--rdeps/--kind/--owner")
			}
			if err != nil {
				return handler.Handle(err)
			}

			for _, label := range labels {
				fmt.Println(label)
			}
			return nil
		},
	}

	cmd.Flags().String("deps", "", "Show direct dependencies of a target")
	cmd.Flags().String("rdeps", "", "Show direct reverse dependencies of a target")
	cmd.Flags().String("kind", "", "Show targets whose rule kind matches a regex")
	cmd.Flags().String("owner", "", "Show the rule owning a source file")

	return cmd
}
