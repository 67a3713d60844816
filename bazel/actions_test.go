package bazel_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/errors"
	"github.com/srikantharun/bazel-ide-toolkit/testutil"
)

// memorySink records Clear/Append calls.
type memorySink struct {
	mu     sync.Mutex
	clears int
	chunks []string
}

func (s *memorySink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.chunks = nil
}

func (s *memorySink) Append(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
}

func (s *memorySink) contents() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.chunks, "")
}

type noopNotifier struct {
	mu   sync.Mutex
	errs []string
}

func (n *noopNotifier) Info(msg string)      {}
func (n *noopNotifier) Warn(msg string)      {}
func (n *noopNotifier) Transient(msg string) {}

func (n *noopNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, msg)
}

func newScriptedInvoker(t *testing.T, script string) (*bazel.Invoker, *memorySink, *noopNotifier, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var calls []string
	executor := &testutil.ScriptExecutor{Route: func(name string, args []string) string {
		mu.Lock()
		calls = append(calls, name+" "+strings.Join(args, " "))
		mu.Unlock()
		return script
	}}

	sink := &memorySink{}
	notifier := &noopNotifier{}
	invoker := bazel.NewInvoker(command.NewRunnerWithExecutor(executor), sink, notifier)
	return invoker, sink, notifier, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), calls...)
	}
}

func TestActionStreamsOutputIntoClearedSink(t *testing.T) {
	invoker, sink, _, calls := newScriptedInvoker(t, `printf 'compiling...\ndone\n'`)

	outcome, err := invoker.BuildOrTestOrRun(context.Background(), bazel.ActionBuild, "//pkg:app", bazel.InvokeOptions{
		WorkspaceRoot: t.TempDir(),
		Flags:         []string{"--config=dbg"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, 1, sink.clears, "the sink is cleared once per invocation")
	assert.Contains(t, sink.contents(), "compiling...")

	got := calls()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "build --config=dbg //pkg:app")
}

func TestActionFailureSurfacesExitStatus(t *testing.T) {
	invoker, _, notifier, _ := newScriptedInvoker(t, `echo 'compile error' >&2; exit 2`)

	outcome, err := invoker.BuildOrTestOrRun(context.Background(), bazel.ActionTest, "//pkg:app_test", bazel.InvokeOptions{
		WorkspaceRoot: t.TempDir(),
	})

	require.NoError(t, err, "a failing action is an outcome, not an error")
	assert.Equal(t, 2, outcome.ExitCode)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.errs, 1)
	assert.Contains(t, notifier.errs[0], "exit 2")
}

func TestActionSingleFlightIsIndependent(t *testing.T) {
	invoker, _, _, calls := newScriptedInvoker(t, "sleep 0.3")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = invoker.BuildOrTestOrRun(context.Background(), bazel.ActionBuild, "//a", bazel.InvokeOptions{WorkspaceRoot: t.TempDir()})
	}()

	require.Eventually(t, func() bool {
		return len(calls()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err := invoker.BuildOrTestOrRun(context.Background(), bazel.ActionBuild, "//b", bazel.InvokeOptions{WorkspaceRoot: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeActionInProgress))

	<-done
	assert.Len(t, calls(), 1, "the rejected action must not spawn a subprocess")
}
