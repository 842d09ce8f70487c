// Defines the passive process model shared by every scheduling policy:
// the input ProcessSpec, the TimelineSlice output, and spec-set validation.

package sim

import (
	"errors"
	"fmt"
)

// ProcessSpec describes one process submitted to the scheduling engine.
// Specs are treated as immutable for the duration of a scheduling run.
type ProcessSpec struct {
	PID      int `yaml:"pid"`      // Unique positive identifier
	Arrival  int `yaml:"arrival"`  // Arrival time in ticks (>= 0)
	Burst    int `yaml:"burst"`    // Total required service time in ticks (> 0)
	Priority int `yaml:"priority"` // Lower value = more urgent
}

func (p ProcessSpec) String() string {
	return fmt.Sprintf("Process: (PID: %d, Arrival: %d, Burst: %d, Priority: %d)", p.PID, p.Arrival, p.Burst, p.Priority)
}

// TimelineSlice is a contiguous interval [Start, End) during which PID ran on Core.
// End is always strictly greater than Start.
type TimelineSlice struct {
	PID   int `yaml:"pid" json:"pid"`
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
	Core  int `yaml:"core" json:"core"`
}

// Duration returns End - Start.
func (s TimelineSlice) Duration() int {
	return s.End - s.Start
}

// ErrInvalidSpec is wrapped by every ValidationError.
var ErrInvalidSpec = errors.New("invalid process spec")

// ErrInvalidConfig is returned for unusable policy parameters (cores, quantum, policy name).
var ErrInvalidConfig = errors.New("invalid scheduling config")

// ValidationError reports the first offending spec in a spec set.
type ValidationError struct {
	Index  int // position in the caller's slice
	PID    int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: spec[%d] pid=%d: %s", ErrInvalidSpec, e.Index, e.PID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSpec
}

// ValidateSpecs rejects spec sets the engine cannot schedule meaningfully:
// non-positive PIDs or bursts, negative arrivals and duplicate PIDs.
// An empty set is valid.
func ValidateSpecs(specs []ProcessSpec) error {
	seen := make(map[int]int, len(specs))
	for i, p := range specs {
		switch {
		case p.PID <= 0:
			return &ValidationError{Index: i, PID: p.PID, Reason: "pid must be positive"}
		case p.Arrival < 0:
			return &ValidationError{Index: i, PID: p.PID, Reason: fmt.Sprintf("arrival must be non-negative, got %d", p.Arrival)}
		case p.Burst <= 0:
			return &ValidationError{Index: i, PID: p.PID, Reason: fmt.Sprintf("burst must be positive, got %d", p.Burst)}
		}
		if first, dup := seen[p.PID]; dup {
			return &ValidationError{Index: i, PID: p.PID, Reason: fmt.Sprintf("duplicate pid (first seen at spec[%d])", first)}
		}
		seen[p.PID] = i
	}
	return nil
}

// DefaultProcessSpecs returns the classic three-process example set used
// when a caller supplies no processes.
func DefaultProcessSpecs() []ProcessSpec {
	return []ProcessSpec{
		{PID: 1, Arrival: 0, Burst: 5, Priority: 2},
		{PID: 2, Arrival: 2, Burst: 3, Priority: 1},
		{PID: 3, Arrival: 4, Burst: 2, Priority: 3},
	}
}

// SpecsFromColumns builds a spec set from parallel columns, assigning PIDs 1..n
// where n is the longest column. Missing arrivals and priorities default to 0,
// missing bursts to 1.
func SpecsFromColumns(arrivals, bursts, priorities []int) []ProcessSpec {
	n := max(len(arrivals), len(bursts), len(priorities))
	specs := make([]ProcessSpec, n)
	for i := 0; i < n; i++ {
		p := ProcessSpec{PID: i + 1, Burst: 1}
		if i < len(arrivals) {
			p.Arrival = arrivals[i]
		}
		if i < len(bursts) {
			p.Burst = bursts[i]
		}
		if i < len(priorities) {
			p.Priority = priorities[i]
		}
		specs[i] = p
	}
	return specs
}
