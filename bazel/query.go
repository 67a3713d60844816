package bazel

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/errors"
	"github.com/srikantharun/bazel-ide-toolkit/logging"
)

// Client issues bazel queries against one workspace.
type Client struct {
	runner    *command.Runner
	root      string
	bazelPath string
	logger    *logrus.Entry
}

// NewClient creates a query client for the workspace rooted at root.
func NewClient(runner *command.Runner, root, bazelPath string) *Client {
	if bazelPath == "" {
		bazelPath = "bazel"
	}
	return &Client{
		runner:    runner,
		root:      root,
		bazelPath: bazelPath,
		logger:    logging.NewLogger("bazel"),
	}
}

// Probe runs a bare query for a label and reports whether it resolves.
// Probes are cheap read-only availability checks; a non-zero exit just
// means "not available", never an error.
func (c *Client) Probe(ctx context.Context, label string) bool {
	outcome := c.runner.Run(ctx, c.root, c.bazelPath, "query", label)
	c.logger.Debugf("probe %s: exit %d", label, outcome.ExitCode)
	return outcome.Success()
}

// Query runs a query expression with --output=label and returns the
// resulting labels, one per line.
func (c *Client) Query(ctx context.Context, expr string) ([]string, error) {
	outcome := c.runner.Run(ctx, c.root, c.bazelPath, "query", expr, "--output=label")
	if !outcome.Success() {
		return nil, errors.QueryFailed(expr, outcome.Stderr)
	}
	return parseLabels(outcome.Stdout), nil
}

// Deps returns the direct dependencies of a target.
func (c *Client) Deps(ctx context.Context, target string) ([]string, error) {
	return c.Query(ctx, fmt.Sprintf("deps(%s,1)", target))
}

// Rdeps returns the direct reverse dependencies of a target within the
// whole workspace.
func (c *Client) Rdeps(ctx context.Context, target string) ([]string, error) {
	return c.Query(ctx, fmt.Sprintf("rdeps(//...,%s,1)", target))
}

// TargetsOfKind returns all targets whose rule kind matches the given
// regex.
func (c *Client) TargetsOfKind(ctx context.Context, kindRegex string) ([]string, error) {
	return c.Query(ctx, fmt.Sprintf("kind(%q, //...)", kindRegex))
}

// OwningTarget returns the first rule target that directly consumes the
// given workspace-relative source path, or "" when none does.
func (c *Client) OwningTarget(ctx context.Context, relPath string) (string, error) {
	labels, err := c.Query(ctx, fmt.Sprintf("kind(rule, rdeps(//...,%s,1))", relPath))
	if err != nil {
		return "", err
	}
	if len(labels) == 0 {
		return "", nil
	}
	return labels[0], nil
}

// parseLabels splits query output into trimmed, non-empty label lines.
func parseLabels(out string) []string {
	var labels []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			labels = append(labels, line)
		}
	}
	return labels
}
