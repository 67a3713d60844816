package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srikantharun/bazel-ide-toolkit/command"
)

func TestProjectCoversEveryState(t *testing.T) {
	outcome := command.Outcome{ExitCode: 0, Elapsed: 1500 * time.Millisecond}

	tests := []struct {
		state       State
		wantText    string
		wantTooltip string
	}{
		{StateIdle, "bazel", "idle"},
		{StatePending, "bazel ~", "pending"},
		{StateRunning, "bazel ↻", "Refreshing"},
		{StateSucceeded, "1.5s", "refreshed in 1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			p := Project(tt.state, outcome)
			assert.Contains(t, p.Text, tt.wantText)
			assert.Contains(t, p.Tooltip, tt.wantTooltip)
		})
	}
}

func TestProjectFailureCarriesExitCode(t *testing.T) {
	p := Project(StateFailed, command.Outcome{ExitCode: 7})
	assert.Contains(t, p.Text, "bazel ✗")
	assert.Contains(t, p.Tooltip, "exit 7")
}

func TestProjectUnknownStateDefaultsToIdle(t *testing.T) {
	p := Project(State(99), command.Outcome{})
	assert.Equal(t, Project(StateIdle, command.Outcome{}), p)
}

func TestReporterNotifiesOnEveryTransition(t *testing.T) {
	var seen []Projection
	r := NewReporter(func(p Projection) {
		seen = append(seen, p)
	})

	r.SetState(StateRunning)
	r.Set(StateSucceeded, command.Outcome{Elapsed: 2 * time.Second})

	require.Len(t, seen, 2)
	assert.Contains(t, seen[0].Tooltip, "Refreshing")
	assert.Contains(t, seen[1].Tooltip, "2.0s")
	assert.Equal(t, StateSucceeded, r.State())
	assert.Equal(t, seen[1], r.Current())
}

func TestReporterKeepsLatestOutcomeAcrossSetState(t *testing.T) {
	r := NewReporter(nil)

	r.Set(StateSucceeded, command.Outcome{Elapsed: 3 * time.Second})
	r.SetState(StateSucceeded)

	assert.Contains(t, r.Current().Tooltip, "3.0s")
}
