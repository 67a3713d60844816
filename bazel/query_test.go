package bazel_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/errors"
	"github.com/srikantharun/bazel-ide-toolkit/testutil"
)

// scriptedClient returns a Client whose bazel invocations run script, and
// a function returning the recorded argument lists.
func scriptedClient(t *testing.T, script string) (*bazel.Client, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var calls []string
	executor := &testutil.ScriptExecutor{Route: func(name string, args []string) string {
		mu.Lock()
		calls = append(calls, name+" "+strings.Join(args, " "))
		mu.Unlock()
		return script
	}}

	runner := command.NewRunnerWithExecutor(executor)
	client := bazel.NewClient(runner, t.TempDir(), "bazel")
	return client, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), calls...)
	}
}

func TestQueryParsesLabelLines(t *testing.T) {
	client, _ := scriptedClient(t, `printf '//pkg:a\n//pkg:b\n\n'`)

	labels, err := client.Query(context.Background(), "//pkg/...")

	require.NoError(t, err)
	assert.Equal(t, []string{"//pkg:a", "//pkg:b"}, labels)
}

func TestQueryFailureReturnsTypedError(t *testing.T) {
	client, _ := scriptedClient(t, `echo 'ERROR: no such package' >&2; exit 1`)

	_, err := client.Query(context.Background(), "//missing/...")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeQueryFailed))
}

func TestDepsAndRdepsShapeTheExpression(t *testing.T) {
	client, calls := scriptedClient(t, `printf '//pkg:dep\n'`)

	_, err := client.Deps(context.Background(), "//pkg:app")
	require.NoError(t, err)
	_, err = client.Rdeps(context.Background(), "//pkg:lib")
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "deps(//pkg:app,1)")
	assert.Contains(t, got[0], "--output=label")
	assert.Contains(t, got[1], "rdeps(//...,//pkg:lib,1)")
}

func TestTargetsOfKindShapeTheExpression(t *testing.T) {
	client, calls := scriptedClient(t, `printf '//pkg:bin\n'`)

	_, err := client.TargetsOfKind(context.Background(), "cc_(binary|test)")

	require.NoError(t, err)
	got := calls()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `kind("cc_(binary|test)", //...)`)
}

func TestOwningTargetReturnsFirstLabel(t *testing.T) {
	client, calls := scriptedClient(t, `printf '//pkg:lib\n//pkg:other\n'`)

	label, err := client.OwningTarget(context.Background(), "pkg/util.cc")

	require.NoError(t, err)
	assert.Equal(t, "//pkg:lib", label)
	got := calls()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "kind(rule, rdeps(//...,pkg/util.cc,1))")
}

func TestOwningTargetEmptyWhenNothingOwnsTheFile(t *testing.T) {
	client, _ := scriptedClient(t, `printf ''`)

	label, err := client.OwningTarget(context.Background(), "orphan.cc")

	require.NoError(t, err)
	assert.Empty(t, label)
}

func TestProbeReflectsExitCode(t *testing.T) {
	available, _ := scriptedClient(t, "exit 0")
	missing, _ := scriptedClient(t, "exit 1")

	assert.True(t, available.Probe(context.Background(), "@hedron_compile_commands//:refresh_all"))
	assert.False(t, missing.Probe(context.Background(), "@hedron_compile_commands//:refresh_all"))
}
