// Computes per-process and aggregate scheduling metrics from a timeline:
// finish time, turnaround (finish - arrival) and wait (turnaround - burst).

package sim

import "fmt"

// ProcessMetrics holds the timing outcome of a single process.
type ProcessMetrics struct {
	PID        int `json:"pid"`
	Finish     int `json:"finish"`     // End of the process's last slice
	Turnaround int `json:"turnaround"` // Finish - Arrival
	Wait       int `json:"wait"`       // Turnaround - Burst
}

// Metrics aggregates statistics about one scheduling run.
type Metrics struct {
	AverageWait       float64          `json:"average_wait"`
	AverageTurnaround float64          `json:"average_turnaround"`
	Makespan          int              `json:"makespan"`    // Latest slice end across all cores
	PerProcess        []ProcessMetrics `json:"per_process"` // In input spec order
}

// ComputeMetrics derives Metrics from specs and the timeline produced for them.
// Averages are taken over every spec that appears in the timeline (all of
// them for engine output) and are 0 for an empty set.
func ComputeMetrics(specs []ProcessSpec, slices []TimelineSlice) Metrics {
	finish := make(map[int]int, len(specs))
	m := Metrics{}
	for _, s := range slices {
		if s.End > finish[s.PID] {
			finish[s.PID] = s.End
		}
		m.Makespan = max(m.Makespan, s.End)
	}

	var totalWait, totalTurnaround int
	for _, p := range specs {
		end, ok := finish[p.PID]
		if !ok {
			continue
		}
		turnaround := end - p.Arrival
		pm := ProcessMetrics{PID: p.PID, Finish: end, Turnaround: turnaround, Wait: turnaround - p.Burst}
		m.PerProcess = append(m.PerProcess, pm)
		totalWait += pm.Wait
		totalTurnaround += pm.Turnaround
	}
	if n := len(m.PerProcess); n > 0 {
		m.AverageWait = float64(totalWait) / float64(n)
		m.AverageTurnaround = float64(totalTurnaround) / float64(n)
	}
	return m
}

// Print displays the timeline and metrics of a scheduling run.
func (m Metrics) Print(title string, slices []TimelineSlice) {
	fmt.Printf("=== %s ===\n", title)
	fmt.Printf("%-6s %-6s %-6s %-6s\n", "PID", "Core", "Start", "End")
	for _, s := range slices {
		fmt.Printf("%-6d %-6d %-6d %-6d\n", s.PID, s.Core, s.Start, s.End)
	}
	fmt.Println()
	fmt.Printf("%-6s %-8s %-11s %-6s\n", "PID", "Finish", "Turnaround", "Wait")
	for _, p := range m.PerProcess {
		fmt.Printf("%-6d %-8d %-11d %-6d\n", p.PID, p.Finish, p.Turnaround, p.Wait)
	}
	fmt.Println()
	fmt.Printf("Average Wait         : %.2f ticks\n", m.AverageWait)
	fmt.Printf("Average Turnaround   : %.2f ticks\n", m.AverageTurnaround)
	fmt.Printf("Makespan             : %d ticks\n", m.Makespan)
}
