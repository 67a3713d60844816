package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/srikantharun/bazel-ide-toolkit/bazel"
	"github.com/srikantharun/bazel-ide-toolkit/config"
)

// loadConfig reads the configuration once per command invocation. The
// coordinators get this snapshot; they never re-read config mid-operation.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// resolveWorkspace finds the Bazel workspace root for the current
// directory.
func resolveWorkspace() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return bazel.FindWorkspaceRoot(cwd)
}

// consoleSink is the CLI's clearable output surface for streamed bazel
// action output. "Clearing" on a terminal stream prints a separator rather
// than erasing scrollback.
type consoleSink struct {
	mu sync.Mutex
}

func (s *consoleSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Println(strings.Repeat("─", 60))
}

func (s *consoleSink) Append(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Print(chunk)
}
