package sim

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/oslab/sim/trace"
)

// Policy names accepted by Schedule.
const (
	PolicyFCFS               = "fcfs"
	PolicySJF                = "sjf"
	PolicySRTF               = "srtf"
	PolicyPriority           = "priority"
	PolicyPriorityPreemptive = "priority-preemptive"
	PolicyRoundRobin         = "rr"
)

// ValidSchedulers is the set of recognized scheduling policy names.
// Empty string defaults to fcfs (for CLI flag default compatibility).
var ValidSchedulers = map[string]bool{
	"":                       true,
	PolicyFCFS:               true,
	PolicySJF:                true,
	PolicySRTF:               true,
	PolicyPriority:           true,
	PolicyPriorityPreemptive: true,
	PolicyRoundRobin:         true,
}

// IsValidScheduler returns true if name is a recognized policy name.
func IsValidScheduler(name string) bool {
	return ValidSchedulers[name]
}

// ErrIterationCap is returned when round robin exceeds its iteration bound.
// Reaching it means the policy loop failed to make progress, never a
// legitimately long schedule.
var ErrIterationCap = errors.New("round robin iteration cap reached")

// ScheduleConfig selects a policy and its parameters.
// Only fcfs honours Cores; every other policy schedules on core 0.
type ScheduleConfig struct {
	Policy  string `yaml:"policy"`
	Cores   int    `yaml:"cores"`
	Quantum int    `yaml:"quantum"`
}

// Schedule runs the policy named in cfg over specs and returns the ordered
// timeline with its metrics. When tr is enabled every dispatch decision is
// recorded into it.
func Schedule(cfg ScheduleConfig, specs []ProcessSpec, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	if !IsValidScheduler(cfg.Policy) {
		return nil, Metrics{}, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, cfg.Policy)
	}
	cores := cfg.Cores
	if cores == 0 {
		cores = 1
	}
	if cfg.Policy != "" && cfg.Policy != PolicyFCFS && cores > 1 {
		logrus.Debugf("policy %q is single-core; ignoring cores=%d", cfg.Policy, cores)
	}
	if tr != nil && tr.Config.Policy == "" {
		tr.Config.Policy = cfg.Policy
	}

	switch cfg.Policy {
	case "", PolicyFCFS:
		return fcfs(specs, cores, tr)
	case PolicySJF:
		return sjf(specs, cores, false, tr)
	case PolicySRTF:
		return sjf(specs, cores, true, tr)
	case PolicyPriority:
		return priority(specs, cores, false, tr)
	case PolicyPriorityPreemptive:
		return priority(specs, cores, true, tr)
	case PolicyRoundRobin:
		return roundRobin(specs, cores, cfg.Quantum, tr)
	default:
		panic(fmt.Sprintf("unhandled scheduler %q", cfg.Policy))
	}
}

// FCFS schedules specs first-come-first-served across cores.
// Specs are taken in (arrival, pid) order; each one goes to the core that
// frees up first (lowest index on ties) and runs its whole burst.
func FCFS(specs []ProcessSpec, cores int) ([]TimelineSlice, Metrics, error) {
	return fcfs(specs, cores, nil)
}

// SJF schedules by shortest burst, or by shortest remaining time when
// preemptive. cores is accepted for signature uniformity; SJF is single-core.
func SJF(specs []ProcessSpec, cores int, preemptive bool) ([]TimelineSlice, Metrics, error) {
	return sjf(specs, cores, preemptive, nil)
}

// Priority schedules by lowest priority value. cores is accepted for
// signature uniformity; Priority is single-core.
func Priority(specs []ProcessSpec, cores int, preemptive bool) ([]TimelineSlice, Metrics, error) {
	return priority(specs, cores, preemptive, nil)
}

// RoundRobin schedules specs on a single core with the given quantum.
// cores is accepted for signature uniformity and ignored.
func RoundRobin(specs []ProcessSpec, cores, quantum int) ([]TimelineSlice, Metrics, error) {
	return roundRobin(specs, cores, quantum, nil)
}

func fcfs(specs []ProcessSpec, cores int, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, Metrics{}, err
	}
	if cores < 1 {
		return nil, Metrics{}, fmt.Errorf("%w: cores must be >= 1, got %d", ErrInvalidConfig, cores)
	}

	order := slices.Clone(specs)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Arrival != order[j].Arrival {
			return order[i].Arrival < order[j].Arrival
		}
		return order[i].PID < order[j].PID
	})

	free := make([]int, cores) // next free time per core
	out := make([]TimelineSlice, 0, len(order))
	for _, p := range order {
		core := 0
		for c := 1; c < cores; c++ {
			if free[c] < free[core] {
				core = c
			}
		}
		start := max(free[core], p.Arrival)
		if tr.Enabled() {
			if start > free[core] {
				tr.RecordIdleJump(trace.IdleJumpRecord{From: free[core], To: start})
			}
			tr.RecordDispatch(trace.DispatchRecord{
				Clock: start, PID: p.PID, Core: core, Duration: p.Burst,
				Ready: []int{p.PID}, Reason: trace.ReasonEarliestFreeCore,
			})
		}
		out = append(out, TimelineSlice{PID: p.PID, Start: start, End: start + p.Burst, Core: core})
		free[core] = start + p.Burst
	}
	return out, ComputeMetrics(specs, out), nil
}

func sjf(specs []ProcessSpec, _ int, preemptive bool, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	key := func(p ProcessSpec, _ int) int { return p.Burst }
	reason := trace.ReasonShortestBurst
	if preemptive {
		key = func(_ ProcessSpec, remaining int) int { return remaining }
		reason = trace.ReasonShortestRemaining
	}
	return selectiveSchedule(specs, preemptive, key, reason, tr)
}

func priority(specs []ProcessSpec, _ int, preemptive bool, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	key := func(p ProcessSpec, _ int) int { return p.Priority }
	return selectiveSchedule(specs, preemptive, key, trace.ReasonHighestPriority, tr)
}

// selectiveSchedule is the shared single-core loop of SJF and Priority.
// At every decision point the ready process with the smallest key wins;
// ties go to the earliest spec in input order. Non-preemptive runs finish
// the winner in one slice; preemptive runs emit one 1-tick slice per
// decision. With nothing ready the clock jumps to the next arrival.
func selectiveSchedule(specs []ProcessSpec, preemptive bool, key func(p ProcessSpec, remaining int) int,
	reason string, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, Metrics{}, err
	}

	remaining := make([]int, len(specs))
	for i, p := range specs {
		remaining[i] = p.Burst
	}
	unfinished := len(specs)

	var out []TimelineSlice
	clock := 0
	for unfinished > 0 {
		best := -1
		var ready []int
		for i, p := range specs {
			if p.Arrival > clock || remaining[i] == 0 {
				continue
			}
			if tr.Enabled() {
				ready = append(ready, p.PID)
			}
			if best < 0 || key(p, remaining[i]) < key(specs[best], remaining[best]) {
				best = i
			}
		}

		if best < 0 {
			next := nextArrival(specs, remaining, clock)
			if tr.Enabled() {
				tr.RecordIdleJump(trace.IdleJumpRecord{From: clock, To: next})
			}
			clock = next
			continue
		}

		run := remaining[best]
		if preemptive {
			run = 1
		}
		if tr.Enabled() {
			tr.RecordDispatch(trace.DispatchRecord{
				Clock: clock, PID: specs[best].PID, Duration: run, Ready: ready, Reason: reason,
			})
		}
		out = append(out, TimelineSlice{PID: specs[best].PID, Start: clock, End: clock + run})
		clock += run
		remaining[best] -= run
		if remaining[best] == 0 {
			unfinished--
		}
	}
	return out, ComputeMetrics(specs, out), nil
}

// nextArrival returns the earliest arrival after clock among unfinished specs.
func nextArrival(specs []ProcessSpec, remaining []int, clock int) int {
	next := -1
	for i, p := range specs {
		if remaining[i] == 0 || p.Arrival <= clock {
			continue
		}
		if next < 0 || p.Arrival < next {
			next = p.Arrival
		}
	}
	return next
}

// roundRobinIterationCap bounds the loop: every iteration either runs at
// least one tick of work or jumps to an arrival that admits a process.
func roundRobinIterationCap(specs []ProcessSpec) int {
	total := len(specs) + 1
	for _, p := range specs {
		total += p.Burst
	}
	return total
}

// rrIterationCap computes the round robin loop bound; tests lower it.
var rrIterationCap = roundRobinIterationCap

func roundRobin(specs []ProcessSpec, _ int, quantum int, tr *trace.ScheduleTrace) ([]TimelineSlice, Metrics, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, Metrics{}, err
	}
	if quantum < 1 {
		return nil, Metrics{}, fmt.Errorf("%w: quantum must be >= 1, got %d", ErrInvalidConfig, quantum)
	}

	remaining := make([]int, len(specs))
	for i, p := range specs {
		remaining[i] = p.Burst
	}
	admitted := make([]bool, len(specs))
	queue := make([]int, 0, len(specs)) // FIFO of spec indices

	// admit enqueues, in input order, every not-yet-admitted spec arriving in [lo, hi].
	admit := func(lo, hi int) {
		for i, p := range specs {
			if !admitted[i] && p.Arrival >= lo && p.Arrival <= hi {
				admitted[i] = true
				queue = append(queue, i)
			}
		}
	}

	var out []TimelineSlice
	clock := 0
	limit := rrIterationCap(specs)
	for iter := 0; ; iter++ {
		if iter > limit {
			return nil, Metrics{}, fmt.Errorf("%w: %d iterations at clock %d", ErrIterationCap, iter, clock)
		}

		admit(clock, clock)
		if len(queue) == 0 {
			next := -1
			for i, p := range specs {
				if !admitted[i] && (next < 0 || p.Arrival < next) {
					next = p.Arrival
				}
			}
			if next < 0 {
				break
			}
			if tr.Enabled() {
				tr.RecordIdleJump(trace.IdleJumpRecord{From: clock, To: next})
			}
			clock = next
			continue
		}

		idx := queue[0]
		queue = queue[1:]
		run := min(quantum, remaining[idx])
		if tr.Enabled() {
			ready := make([]int, 0, len(queue)+1)
			ready = append(ready, specs[idx].PID)
			for _, q := range queue {
				ready = append(ready, specs[q].PID)
			}
			tr.RecordDispatch(trace.DispatchRecord{
				Clock: clock, PID: specs[idx].PID, Duration: run, Ready: ready, Reason: trace.ReasonQueueHead,
			})
		}
		start := clock
		out = append(out, TimelineSlice{PID: specs[idx].PID, Start: start, End: start + run})
		clock += run
		remaining[idx] -= run

		// Arrivals during the slice queue ahead of the preempted process.
		admit(start+1, clock)
		if remaining[idx] > 0 {
			queue = append(queue, idx)
		}
	}
	return out, ComputeMetrics(specs, out), nil
}
