// Package bazel wraps the bazel binary: workspace discovery, label
// queries, and build/test/run actions. Query and build semantics belong to
// bazel itself; this package only shapes invocations and parses label
// lists.
package bazel

import (
	"os"
	"path/filepath"

	"github.com/srikantharun/bazel-ide-toolkit/errors"
)

// workspaceMarkers are the files whose presence identifies a workspace
// root.
var workspaceMarkers = []string{
	"WORKSPACE",
	"WORKSPACE.bazel",
	"MODULE.bazel",
}

// FindWorkspaceRoot walks up from startDir looking for a Bazel workspace
// marker file.
func FindWorkspaceRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range workspaceMarkers {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.WorkspaceNotFound(startDir)
		}
		dir = parent
	}
}
