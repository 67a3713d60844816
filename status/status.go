// Package status holds the single mutable projection of the toolkit's
// current refresh state, consumed by the terminal status surface.
package status

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/srikantharun/bazel-ide-toolkit/command"
)

// State is the coordinator-visible lifecycle of the refresh pipeline.
type State int

const (
	StateIdle State = iota
	StatePending
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Projection is the text+tooltip pair shown by the UI surface. It is
// mutated only by the coordinators and read only by the UI.
type Projection struct {
	Text    string
	Tooltip string
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Project computes the projection for a state and the latest command
// outcome. It is a pure function; any unrecognized state projects as idle.
func Project(state State, outcome command.Outcome) Projection {
	switch state {
	case StatePending:
		return Projection{
			Text:    busyStyle.Render("bazel ~"),
			Tooltip: "Build file change detected, refresh pending",
		}
	case StateRunning:
		return Projection{
			Text:    busyStyle.Render("bazel ↻"),
			Tooltip: "Refreshing compile_commands.json...",
		}
	case StateSucceeded:
		secs := outcome.Elapsed.Seconds()
		return Projection{
			Text:    okStyle.Render(fmt.Sprintf("bazel ✓ %.1fs", secs)),
			Tooltip: fmt.Sprintf("compile_commands.json refreshed in %.1fs", secs),
		}
	case StateFailed:
		return Projection{
			Text:    failStyle.Render("bazel ✗"),
			Tooltip: fmt.Sprintf("Refresh failed (exit %d)", outcome.ExitCode),
		}
	default:
		return Projection{
			Text:    "bazel",
			Tooltip: "Bazel IDE toolkit idle",
		}
	}
}

// Reporter tracks the latest state/outcome pair and notifies an optional
// listener on every transition. All methods are safe for concurrent use.
type Reporter struct {
	mu       sync.Mutex
	state    State
	outcome  command.Outcome
	onUpdate func(Projection)
}

// NewReporter creates an idle Reporter. onUpdate, if non-nil, is invoked
// with the new projection after every Set.
func NewReporter(onUpdate func(Projection)) *Reporter {
	return &Reporter{onUpdate: onUpdate}
}

// Set records a state transition along with the outcome that produced it.
func (r *Reporter) Set(state State, outcome command.Outcome) {
	r.mu.Lock()
	r.state = state
	r.outcome = outcome
	projection := Project(state, outcome)
	callback := r.onUpdate
	r.mu.Unlock()

	if callback != nil {
		callback(projection)
	}
}

// SetState records a transition with no new outcome.
func (r *Reporter) SetState(state State) {
	r.mu.Lock()
	r.state = state
	projection := Project(state, r.outcome)
	callback := r.onUpdate
	r.mu.Unlock()

	if callback != nil {
		callback(projection)
	}
}

// State returns the latest recorded state.
func (r *Reporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current returns the projection of the latest recorded state.
func (r *Reporter) Current() Projection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Project(r.state, r.outcome)
}
