// Package trace provides decision-trace recording for scheduling policy analysis.
// The package does not import sim; it stores pure data types.
package trace

// DispatchRecord captures a single dispatch decision: which process was put
// on which core at Clock, for how long, and which processes were eligible.
type DispatchRecord struct {
	Clock    int
	PID      int
	Core     int
	Duration int
	Ready    []int  // PIDs eligible at the decision point, in input order
	Reason   string // one of the Reason* constants
}

// Dispatch reasons, one per selection rule.
const (
	ReasonEarliestFreeCore  = "earliest-free-core" // fcfs
	ReasonShortestBurst     = "shortest-burst"     // sjf
	ReasonShortestRemaining = "shortest-remaining" // srtf
	ReasonHighestPriority   = "highest-priority"   // priority, both variants
	ReasonQueueHead         = "queue-head"         // rr
)

// IdleJumpRecord captures the engine advancing the clock over an idle gap
// because no process was ready.
type IdleJumpRecord struct {
	From int
	To   int
}
