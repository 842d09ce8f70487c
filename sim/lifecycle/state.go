// Package lifecycle simulates independent processes walking the classic
// five-state model in wall-clock time.
package lifecycle

import (
	"fmt"

	"github.com/google/uuid"
)

// ProcessState is a state of the five-state process model.
type ProcessState string

const (
	Created    ProcessState = "CREATED"
	Ready      ProcessState = "READY"
	Running    ProcessState = "RUNNING"
	Blocked    ProcessState = "BLOCKED"
	Terminated ProcessState = "TERMINATED"
)

// Event records one process entering State.
type Event struct {
	Run   uuid.UUID    `json:"run"`
	PID   int          `json:"pid"`
	State ProcessState `json:"state"`
}

func (e Event) String() string {
	return fmt.Sprintf("pid=%d state=%s", e.PID, e.State)
}

type step struct {
	state ProcessState
	delay float64 // seconds spent in state before the next transition
}

// script is the fixed path every simulated process follows.
var script = []step{
	{Created, 0.5},
	{Ready, 0.5},
	{Running, 1.0},
	{Blocked, 0.5},
	{Ready, 0.5},
	{Running, 1.0},
	{Terminated, 0},
}

// firstRunning is the script index at which a paused actor gives up.
const firstRunning = 2

// Script returns the state sequence every completed process emits.
func Script() []ProcessState {
	out := make([]ProcessState, len(script))
	for i, st := range script {
		out[i] = st.state
	}
	return out
}
