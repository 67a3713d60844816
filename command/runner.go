package command

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// SpawnFailureExitCode is the sentinel exit code reported when the
	// subprocess could not be launched at all (binary not found, spawn
	// error). The launch error message is placed in Outcome.Stderr.
	SpawnFailureExitCode = -1

	// DefaultMaxCaptureBytes is the per-stream capture cap. Output beyond
	// the cap is dropped, not an error.
	DefaultMaxCaptureBytes = 4 << 20
)

// Outcome is the result of a single subprocess invocation. A non-zero
// ExitCode is a normal outcome, not an error; callers must inspect it.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Elapsed  time.Duration
}

// Success reports whether the subprocess exited with code zero.
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner executes external tools in a working directory and captures their
// output. It never returns an error for a failing command: launch failures
// become a synthetic Outcome with SpawnFailureExitCode.
type Runner struct {
	executor        Executor
	maxCaptureBytes int
}

// NewRunner creates a Runner backed by a RealExecutor.
func NewRunner() *Runner {
	return NewRunnerWithExecutor(&RealExecutor{})
}

// NewRunnerWithExecutor creates a Runner with a custom Executor.
func NewRunnerWithExecutor(exec Executor) *Runner {
	return &Runner{
		executor:        exec,
		maxCaptureBytes: DefaultMaxCaptureBytes,
	}
}

// Run executes the command in dir and waits for it to finish.
func (r *Runner) Run(ctx context.Context, dir string, name string, args ...string) Outcome {
	cmd := r.executor.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	stdout := newCappedBuffer(r.maxCaptureBytes)
	stderr := newCappedBuffer(r.maxCaptureBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return r.wait(cmd, stdout, stderr)
}

// RunStreaming executes the command and invokes onChunk for every block of
// combined stdout/stderr as it arrives, in arrival order. Interleaving is
// only as fine-grained as the process pipes deliver it; there is no
// cross-stream ordering guarantee.
func (r *Runner) RunStreaming(ctx context.Context, dir string, onChunk func(string), name string, args ...string) Outcome {
	cmd := r.executor.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	stdout := newCappedBuffer(r.maxCaptureBytes)
	stderr := newCappedBuffer(r.maxCaptureBytes)

	// The exec package copies each pipe on its own goroutine, so the
	// chunk callback is serialized behind one mutex.
	var mu sync.Mutex
	tap := func(chunk []byte) {
		if onChunk == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onChunk(string(chunk))
	}

	cmd.Stdout = &tappedWriter{dst: stdout, tap: tap}
	cmd.Stderr = &tappedWriter{dst: stderr, tap: tap}

	return r.wait(cmd, stdout, stderr)
}

// RunWithInput executes the command with input written to its standard
// input, which is closed before waiting for completion. Used for
// formatter-style tools that read source from stdin.
func (r *Runner) RunWithInput(ctx context.Context, dir string, input string, name string, args ...string) Outcome {
	cmd := r.executor.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(input)

	stdout := newCappedBuffer(r.maxCaptureBytes)
	stderr := newCappedBuffer(r.maxCaptureBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return r.wait(cmd, stdout, stderr)
}

func (r *Runner) wait(cmd *exec.Cmd, stdout, stderr *cappedBuffer) Outcome {
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	outcome := Outcome{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: elapsed,
	}

	switch e := err.(type) {
	case nil:
		outcome.ExitCode = 0
	case *exec.ExitError:
		outcome.ExitCode = e.ExitCode()
	default:
		// Spawn failure: the process never ran.
		outcome.ExitCode = SpawnFailureExitCode
		if outcome.Stderr != "" {
			outcome.Stderr += "\n"
		}
		outcome.Stderr += err.Error()
	}

	return outcome
}

// cappedBuffer captures at most max bytes and silently discards the rest.
type cappedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
	max int
}

func newCappedBuffer(max int) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.max - b.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	// Report the full length so the pipe keeps draining.
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// tappedWriter forwards writes to a capture buffer and a chunk callback.
type tappedWriter struct {
	dst io.Writer
	tap func([]byte)
}

func (w *tappedWriter) Write(p []byte) (int, error) {
	w.tap(p)
	return w.dst.Write(p)
}
