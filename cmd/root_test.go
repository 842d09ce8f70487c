package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/oslab/sim"
	"github.com/inference-sim/oslab/sim/trace"
)

// newScheduleTestCmd returns a command with fresh schedule flags bound to
// the package globals, reset to their defaults.
func newScheduleTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "schedule"}
	registerScheduleFlags(c)
	return c
}

func TestResolveScheduleScenario_Defaults(t *testing.T) {
	c := newScheduleTestCmd(t)

	sc, err := resolveScheduleScenario(c)
	require.NoError(t, err)

	assert.Equal(t, sim.PolicyFCFS, sc.Scheduler.Policy)
	assert.Equal(t, 1, sc.Scheduler.Cores)
	assert.Equal(t, 2, sc.Scheduler.Quantum)
	assert.Equal(t, sim.DefaultProcessSpecs(), sc.Processes)
}

func TestResolveScheduleScenario_ColumnsOverrideProcesses(t *testing.T) {
	// GIVEN explicit columns
	c := newScheduleTestCmd(t)
	require.NoError(t, c.Flags().Set("arrivals", "0,1"))
	require.NoError(t, c.Flags().Set("bursts", "4,2"))
	require.NoError(t, c.Flags().Set("policy", "srtf"))

	// WHEN resolved
	sc, err := resolveScheduleScenario(c)
	require.NoError(t, err)

	// THEN they become the process set
	assert.Equal(t, sim.PolicySRTF, sc.Scheduler.Policy)
	assert.Equal(t, []sim.ProcessSpec{
		{PID: 1, Arrival: 0, Burst: 4},
		{PID: 2, Arrival: 1, Burst: 2},
	}, sc.Processes)
}

func TestResolveScheduleScenario_FlagsOverrideFileOnlyWhenChanged(t *testing.T) {
	// GIVEN a scenario file selecting rr with quantum 3
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler: {policy: rr, quantum: 3}\n"), 0o644))

	c := newScheduleTestCmd(t)
	require.NoError(t, c.Flags().Set("scenario", path))
	require.NoError(t, c.Flags().Set("cores", "2"))

	// WHEN resolved with only --cores set explicitly
	sc, err := resolveScheduleScenario(c)
	require.NoError(t, err)

	// THEN file values survive the flag defaults, and --cores applies
	assert.Equal(t, sim.PolicyRoundRobin, sc.Scheduler.Policy)
	assert.Equal(t, 3, sc.Scheduler.Quantum)
	assert.Equal(t, 2, sc.Scheduler.Cores)
}

func TestResolveScheduleScenario_CSV(t *testing.T) {
	c := newScheduleTestCmd(t)
	require.NoError(t, c.Flags().Set("csv", filepath.Join("..", "examples", "processes.csv")))

	sc, err := resolveScheduleScenario(c)
	require.NoError(t, err)
	assert.Len(t, sc.Processes, 4)
}

func TestResolveScheduleScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		flag string
		val  string
	}{
		{"unknown policy", "policy", "lottery"},
		{"zero burst", "bursts", "0"},
		{"negative quantum", "quantum", "-1"},
		{"missing scenario file", "scenario", "/nonexistent/scenario.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newScheduleTestCmd(t)
			require.NoError(t, c.Flags().Set(tt.flag, tt.val))
			_, err := resolveScheduleScenario(c)
			assert.Error(t, err)
		})
	}
}

func TestScheduleOutput_MetricsAndTracePrintedToStdout(t *testing.T) {
	// GIVEN a traced round robin run
	tr := trace.NewScheduleTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	slices, m, err := sim.Schedule(sim.ScheduleConfig{Policy: sim.PolicyRoundRobin, Quantum: 2}, sim.DefaultProcessSpecs(), tr)
	require.NoError(t, err)

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// WHEN printed the way the schedule command does
	m.Print(sim.PolicyRoundRobin, slices)
	printTraceSummary(trace.Summarize(tr))

	// Restore stdout and read captured output
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	// THEN timeline, metrics and trace summary are on stdout
	assert.Contains(t, output, "=== rr ===")
	assert.Contains(t, output, "Average Wait         : 3.67 ticks")
	assert.Contains(t, output, "=== Decision Trace ===")
	assert.Contains(t, output, "Dispatches           : 6")
}
