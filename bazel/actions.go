package bazel

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/errors"
	"github.com/srikantharun/bazel-ide-toolkit/logging"
	"github.com/srikantharun/bazel-ide-toolkit/status"
)

// Action is a bazel verb the invoker knows how to run against a target.
type Action string

const (
	ActionBuild Action = "build"
	ActionTest  Action = "test"
	ActionRun   Action = "run"
)

// OutputSink is the clearable append-only log surface an action streams
// into. It is cleared and reopened once per invocation.
type OutputSink interface {
	Clear()
	Append(chunk string)
}

// InvokeOptions is the per-invocation configuration snapshot.
type InvokeOptions struct {
	WorkspaceRoot string
	BazelPath     string
	// Flags holds the configured extra flags for this action
	// (build_flags, test_flags or run_flags).
	Flags []string
}

// Invoker runs build/test/run actions with streaming output. It carries
// its own single-flight guard, deliberately independent from the refresh
// coordinator's: an action may run while a refresh is in flight.
type Invoker struct {
	runner   *command.Runner
	sink     OutputSink
	notifier status.Notifier
	logger   *logrus.Entry

	mu      sync.Mutex
	running bool
}

// NewInvoker creates an Invoker streaming into sink.
func NewInvoker(runner *command.Runner, sink OutputSink, notifier status.Notifier) *Invoker {
	return &Invoker{
		runner:   runner,
		sink:     sink,
		notifier: notifier,
		logger:   logging.NewLogger("bazel-action"),
	}
}

// BuildOrTestOrRun executes `bazel <action> <flags...> <target>` in the
// workspace root, streaming combined output to the sink. A second action
// requested while one is running is rejected, not queued.
func (inv *Invoker) BuildOrTestOrRun(ctx context.Context, action Action, target string, opts InvokeOptions) (command.Outcome, error) {
	inv.mu.Lock()
	if inv.running {
		inv.mu.Unlock()
		err := errors.ActionInProgress(string(action))
		inv.notifier.Info(err.Message)
		return command.Outcome{}, err
	}
	inv.running = true
	inv.mu.Unlock()

	defer func() {
		inv.mu.Lock()
		inv.running = false
		inv.mu.Unlock()
	}()

	bazelPath := opts.BazelPath
	if bazelPath == "" {
		bazelPath = "bazel"
	}

	args := []string{string(action)}
	args = append(args, opts.Flags...)
	args = append(args, target)

	inv.logger.Infof("bazel %s %s", action, target)

	inv.sink.Clear()
	inv.sink.Append(fmt.Sprintf("$ %s %s %s\n", bazelPath, action, target))

	outcome := inv.runner.RunStreaming(ctx, opts.WorkspaceRoot, inv.sink.Append, bazelPath, args...)

	secs := outcome.Elapsed.Seconds()
	if outcome.Success() {
		inv.notifier.Transient(fmt.Sprintf("bazel %s %s succeeded in %.1fs", action, target, secs))
	} else {
		inv.notifier.Error(fmt.Sprintf("bazel %s %s failed (exit %d, %.1fs)", action, target, outcome.ExitCode, secs))
	}

	return outcome, nil
}
