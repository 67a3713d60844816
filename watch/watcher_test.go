package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikantharun/bazel-ide-toolkit/testutil"
)

func TestIsBuildFileMatching(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, func() {})
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		relPath string
		matches bool
	}{
		{"BUILD", true},
		{"BUILD.bazel", true},
		{"pkg/deep/BUILD", true},
		{"pkg/deep/BUILD.bazel", true},
		{"WORKSPACE", true},
		{"WORKSPACE.bazel", true},
		{"MODULE.bazel", true},
		{"MODULE.bazel.lock", true},
		{"defs/rules.bzl", true},
		{"main.cc", false},
		{"pkg/README.md", false},
		{"BUILD.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.relPath, func(t *testing.T) {
			assert.Equal(t, tt.matches, w.isBuildFile(filepath.Join(root, tt.relPath)))
		})
	}
}

func TestWatcherSignalsOnBuildFileChange(t *testing.T) {
	root := testutil.InitBazelWorkspace(t)
	testutil.WriteFile(t, root, "pkg/main.cc", "int main() {}\n")

	var signals int64
	w, err := NewWatcher(root, func() {
		atomic.AddInt64(&signals, 1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Let the watch subscriptions settle before generating events.
	time.Sleep(100 * time.Millisecond)

	testutil.WriteFile(t, root, "pkg/BUILD.bazel", "cc_binary(name = \"app\")\n")

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&signals) >= 1
	}, 2*time.Second, 20*time.Millisecond, "BUILD file change should signal")
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	root := testutil.InitBazelWorkspace(t)

	var signals int64
	w, err := NewWatcher(root, func() {
		atomic.AddInt64(&signals, 1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	testutil.WriteFile(t, root, "notes.txt", "not a build file\n")

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&signals))
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := testutil.InitBazelWorkspace(t)

	var signals int64
	w, err := NewWatcher(root, func() {
		atomic.AddInt64(&signals, 1)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "newpkg"), 0755))
	// Give the watcher a beat to register the new directory.
	time.Sleep(200 * time.Millisecond)
	testutil.WriteFile(t, root, "newpkg/BUILD", "cc_library(name = \"lib\")\n")

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&signals) >= 1
	}, 2*time.Second, 20*time.Millisecond, "BUILD in a new directory should signal")
}
