package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/oslab/sim"
	"github.com/inference-sim/oslab/sim/trace"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for the schedule command
	policy       string // Scheduling policy name
	quantum      int    // Round robin time quantum (ticks)
	cores        int    // Number of cores (fcfs only)
	scenarioPath string // Scenario YAML file
	csvPath      string // Process spec CSV file
	arrivals     []int  // Arrival column
	bursts       []int  // Burst column
	priorities   []int  // Priority column
	traceLevel   string // Decision trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "oslab",
	Short: "Operating system concept simulator: CPU scheduling, process lifecycle, IPC and semaphores",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// scheduleCmd runs one scheduling policy over a process set and prints the
// timeline and metrics
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a process set and print its timeline and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := resolveScheduleScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q. Valid: none, decisions", traceLevel)
		}

		var tr *trace.ScheduleTrace
		if trace.TraceLevel(traceLevel) != trace.TraceLevelNone && traceLevel != "" {
			tr = trace.NewScheduleTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		}

		logrus.Infof("Scheduling %d processes with policy=%s cores=%d quantum=%d",
			len(sc.Processes), sc.Scheduler.Policy, sc.Scheduler.Cores, sc.Scheduler.Quantum)
		slices, m, err := sim.Schedule(sc.Scheduler, sc.Processes, tr)
		if err != nil {
			logrus.Fatalf("Scheduling failed: %v", err)
		}
		m.Print(sc.Scheduler.Policy, slices)
		if tr != nil {
			printTraceSummary(trace.Summarize(tr))
		}
		logrus.Info("Scheduling complete.")
	},
}

// resolveScheduleScenario builds the scenario for the schedule command.
// Precedence: --arrivals/--bursts/--priorities, then --csv, then the
// scenario file's processes, then the classic default set. Scheduler flags
// override file values only when explicitly set.
func resolveScheduleScenario(cmd *cobra.Command) (*sim.Scenario, error) {
	sc := &sim.Scenario{}
	if scenarioPath != "" {
		loaded, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}

	flags := cmd.Flags()
	if sc.Scheduler.Policy == "" || flags.Changed("policy") {
		sc.Scheduler.Policy = policy
	}
	if sc.Scheduler.Quantum == 0 || flags.Changed("quantum") {
		sc.Scheduler.Quantum = quantum
	}
	if sc.Scheduler.Cores == 0 || flags.Changed("cores") {
		sc.Scheduler.Cores = cores
	}

	switch {
	case len(arrivals) > 0 || len(bursts) > 0 || len(priorities) > 0:
		sc.Processes = sim.SpecsFromColumns(arrivals, bursts, priorities)
	case csvPath != "":
		specs, err := sim.LoadSpecsCSV(csvPath)
		if err != nil {
			return nil, err
		}
		sc.Processes = specs
	}

	sc.WithDefaults()
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}

func printTraceSummary(s *trace.TraceSummary) {
	fmt.Println()
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Dispatches           : %d\n", s.TotalDispatches)
	fmt.Printf("Context Switches     : %d\n", s.ContextSwitches)
	fmt.Printf("Idle Jumps           : %d (%d ticks)\n", s.IdleJumps, s.IdleTime)
	fmt.Printf("Dispatches per PID   : %v\n", s.DispatchesPerPID)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScheduleFlags binds the schedule flags to c.
func registerScheduleFlags(c *cobra.Command) {
	c.Flags().StringVar(&policy, "policy", sim.PolicyFCFS, "Scheduling policy (fcfs, sjf, srtf, priority, priority-preemptive, rr)")
	c.Flags().IntVar(&quantum, "quantum", 2, "Round robin time quantum in ticks")
	c.Flags().IntVar(&cores, "cores", 1, "Number of cores (honoured by fcfs only)")
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML file")
	c.Flags().StringVar(&csvPath, "csv", "", "Path to process CSV file (pid,arrival,burst,priority)")
	c.Flags().IntSliceVar(&arrivals, "arrivals", nil, "Comma-separated arrival times")
	c.Flags().IntSliceVar(&bursts, "bursts", nil, "Comma-separated burst times")
	c.Flags().IntSliceVar(&priorities, "priorities", nil, "Comma-separated priorities (lower = more urgent)")
	c.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions); bare --trace means decisions")
	c.Flags().Lookup("trace").NoOptDefVal = string(trace.TraceLevelDecisions)
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerScheduleFlags(scheduleCmd)
	rootCmd.AddCommand(scheduleCmd)
}
