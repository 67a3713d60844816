// Package refresh regenerates compile_commands.json from current build
// file state. The coordinator enforces at-most-one concurrent refresh with
// a drop policy: a request arriving while one is running is rejected, not
// queued.
package refresh

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/srikantharun/bazel-ide-toolkit/command"
	"github.com/srikantharun/bazel-ide-toolkit/errors"
	"github.com/srikantharun/bazel-ide-toolkit/logging"
	"github.com/srikantharun/bazel-ide-toolkit/status"
)

// Generator labels probed in priority order.
const (
	PrimaryGenerator  = "@hedron_compile_commands//:refresh_all"
	FallbackGenerator = "//:refresh_compile_commands"
)

// stderrTailChars is how much of a failing run's stderr ends up in the
// error notification. Full output belongs in the log surface, not the
// notification.
const stderrTailChars = 200

// Prober answers whether a generator label resolves in the workspace.
type Prober interface {
	Probe(ctx context.Context, label string) bool
}

// Options is the per-operation configuration snapshot. Reading it once per
// refresh keeps a mid-operation config edit from changing behavior
// half-way through.
type Options struct {
	WorkspaceRoot string
	BazelPath     string
	// OutputFile is the generated compile database, relative to the
	// workspace root.
	OutputFile string
}

// Coordinator owns the refresh state machine. The state is an explicit
// field, not a package global, so multiple workspace instances do not
// collide.
type Coordinator struct {
	runner   *command.Runner
	prober   Prober
	reporter *status.Reporter
	notifier status.Notifier
	logger   *logrus.Entry

	mu      sync.Mutex
	running bool

	lastDigest string
}

// New creates an idle Coordinator.
func New(runner *command.Runner, prober Prober, reporter *status.Reporter, notifier status.Notifier) *Coordinator {
	return &Coordinator{
		runner:   runner,
		prober:   prober,
		reporter: reporter,
		notifier: notifier,
		logger:   logging.NewLogger("refresh"),
	}
}

// Running reports whether a refresh is currently in flight.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Refresh regenerates the compile database. Safe to call from any number
// of call sites concurrently; only one refresh runs at a time and the rest
// are dropped with an informational notice. Whatever happens, the
// coordinator is back to idle when this returns.
func (c *Coordinator) Refresh(ctx context.Context, opts Options) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		err := errors.RefreshInProgress()
		c.notifier.Info(err.Message)
		return err
	}
	c.running = true
	c.mu.Unlock()

	// The central invariant: the running flag is released on every path
	// out of this function.
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.reporter.SetState(status.StateRunning)
	c.logger.Infof("Refreshing %s...", opts.OutputFile)

	label, err := c.resolveGenerator(ctx, opts)
	if err != nil {
		c.reporter.Set(status.StateFailed, command.Outcome{ExitCode: command.SpawnFailureExitCode})
		c.notifier.Error(err.Error())
		return err
	}

	outcome := c.runner.Run(ctx, opts.WorkspaceRoot, bazelPath(opts), "run", label)
	secs := outcome.Elapsed.Seconds()

	if !outcome.Success() {
		c.reporter.Set(status.StateFailed, outcome)
		c.notifier.Error(fmt.Sprintf("Refresh failed (%.1fs): %s", secs, tail(outcome.Stderr, stderrTailChars)))
		return errors.New(errors.ErrCodeCommandFailed, "compile_commands refresh failed").
			WithDetail("exitCode", outcome.ExitCode)
	}

	c.reporter.Set(status.StateSucceeded, outcome)
	switch c.noteOutputDigest(opts) {
	case digestChanged:
		c.notifier.Transient(fmt.Sprintf("Refreshed in %.1fs (content changed)", secs))
	case digestUnchanged:
		c.notifier.Transient(fmt.Sprintf("Refreshed in %.1fs (no changes)", secs))
	default:
		c.notifier.Transient(fmt.Sprintf("Refreshed in %.1fs", secs))
	}
	return nil
}

// resolveGenerator probes the extractor targets in priority order. Neither
// resolving is a configuration error; no build is run in that case.
func (c *Coordinator) resolveGenerator(ctx context.Context, opts Options) (string, error) {
	if c.prober.Probe(ctx, PrimaryGenerator) {
		return PrimaryGenerator, nil
	}
	if c.prober.Probe(ctx, FallbackGenerator) {
		return FallbackGenerator, nil
	}
	return "", errors.NoGeneratorFound(PrimaryGenerator, FallbackGenerator)
}

type digestResult int

const (
	digestUnknown digestResult = iota
	digestChanged
	digestUnchanged
)

// noteOutputDigest hashes the generated file and compares it with the
// previous refresh so the success notice can say whether anything
// actually changed.
func (c *Coordinator) noteOutputDigest(opts Options) digestResult {
	data, err := os.ReadFile(filepath.Join(opts.WorkspaceRoot, opts.OutputFile))
	if err != nil {
		return digestUnknown
	}
	sum := md5.Sum(data)
	digest := hex.EncodeToString(sum[:])

	if digest == c.lastDigest {
		return digestUnchanged
	}
	c.lastDigest = digest
	return digestChanged
}

func bazelPath(opts Options) string {
	if opts.BazelPath == "" {
		return "bazel"
	}
	return opts.BazelPath
}

// tail returns the last n characters of s.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
