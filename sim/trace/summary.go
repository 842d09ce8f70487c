package trace

// TraceSummary aggregates statistics from a ScheduleTrace.
type TraceSummary struct {
	TotalDispatches  int
	ContextSwitches  int // consecutive dispatches on a core that change PID
	IdleJumps        int
	IdleTime         int         // total ticks skipped by idle jumps
	DispatchesPerPID map[int]int // PID → number of dispatches
}

// Summarize computes aggregate statistics from a ScheduleTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *ScheduleTrace) *TraceSummary {
	summary := &TraceSummary{
		DispatchesPerPID: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDispatches = len(st.Dispatches)
	lastOnCore := make(map[int]int)
	for _, d := range st.Dispatches {
		summary.DispatchesPerPID[d.PID]++
		if prev, ok := lastOnCore[d.Core]; ok && prev != d.PID {
			summary.ContextSwitches++
		}
		lastOnCore[d.Core] = d.PID
	}

	summary.IdleJumps = len(st.IdleJumps)
	for _, j := range st.IdleJumps {
		summary.IdleTime += j.To - j.From
	}

	return summary
}
