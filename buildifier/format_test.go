package buildifier_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikantharun/bazel-ide-toolkit/buildifier"
	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/testutil"
)

func scriptedFormatter(script string) *buildifier.Formatter {
	executor := &testutil.ScriptExecutor{Route: func(name string, args []string) string {
		return script
	}}
	return buildifier.NewFormatter(command.NewRunnerWithExecutor(executor), "buildifier")
}

func TestFormatIdenticalOutputProducesNoEdit(t *testing.T) {
	// buildifier echoes the input back unchanged
	f := scriptedFormatter("cat")

	source := "cc_library(name = \"lib\")\n"
	formatted, changed := f.Format(context.Background(), "BUILD", source)

	assert.False(t, changed)
	assert.Equal(t, source, formatted)
}

func TestFormatChangedOutputProducesOneFullReplacement(t *testing.T) {
	f := scriptedFormatter("tr 'a-z' 'A-Z'")

	formatted, changed := f.Format(context.Background(), "BUILD", "cc_library()\n")

	assert.True(t, changed)
	assert.Equal(t, "CC_LIBRARY()\n", formatted)
}

func TestFormatToolFailureIsSilentlyIgnored(t *testing.T) {
	f := scriptedFormatter("echo 'syntax error' >&2; exit 1")

	source := "broken(\n"
	formatted, changed := f.Format(context.Background(), "BUILD", source)

	assert.False(t, changed)
	assert.Equal(t, source, formatted, "best-effort formatting leaves input untouched on failure")
}

func TestFormatMissingToolIsSilentlyIgnored(t *testing.T) {
	// Real executor, binary that does not exist: spawn failure path.
	f := buildifier.NewFormatter(command.NewRunner(), "definitely-not-buildifier-9f8e7d")

	source := "cc_library()\n"
	formatted, changed := f.Format(context.Background(), "BUILD", source)

	assert.False(t, changed)
	assert.Equal(t, source, formatted)
}

func TestFormatFileRewritesInPlace(t *testing.T) {
	f := scriptedFormatter("tr 'a-z' 'A-Z'")
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "BUILD", "cc_library()\n")

	changed, err := f.FormatFile(context.Background(), path)

	require.NoError(t, err)
	assert.True(t, changed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CC_LIBRARY()\n", string(data))
}

func TestCheckReportsUnformattedFiles(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "BUILD", "cc_library()\n")

	formattedOK, err := scriptedFormatter("cat").Check(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, formattedOK)

	needsWork, err := scriptedFormatter("tr 'a-z' 'A-Z'").Check(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, needsWork)
}
