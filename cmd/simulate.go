package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/oslab/sim"
	"github.com/inference-sim/oslab/sim/ipc"
	"github.com/inference-sim/oslab/sim/lifecycle"
	"github.com/inference-sim/oslab/sim/live"
	"github.com/inference-sim/oslab/sim/semaphore"
)

// Live simulator names accepted by --sim.
const (
	SimLifecycle = "lifecycle"
	SimIPC       = "ipc"
	SimSemaphore = "semaphore"
)

var validSimulators = map[string]bool{
	SimLifecycle: true,
	SimIPC:       true,
	SimSemaphore: true,
}

var (
	// CLI flags for the simulate command
	simKind         string        // Simulator to run
	simDuration     time.Duration // Wall-clock run time
	simPoll         time.Duration // Event drain interval
	simScenarioPath string        // Scenario YAML file
	simPreset       string        // Pacing preset from defaults.yaml
	simSpeed        float64       // Initial speed factor
	simTimeScale    float64       // Multiplier on nominal delays
	simJitter       float64       // Relative pacing jitter
	simSeed         int64         // Jitter seed
	simProcesses    int           // Lifecycle process count
	simProducers    int           // Producer count (ipc, semaphore)
	simConsumers    int           // Consumer count (ipc, semaphore)
	simCapacity     int           // Semaphore capacity
)

// simulateCmd runs one live simulator for a fixed duration and streams its
// events to stdout
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a live simulator (lifecycle, ipc, semaphore) and stream its events",
	Run: func(cmd *cobra.Command, args []string) {
		if !validSimulators[simKind] {
			logrus.Fatalf("Unknown simulator %q. Valid: lifecycle, ipc, semaphore", simKind)
		}
		sc, err := resolveSimulateScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		r := newRunner(simKind, sc)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logrus.Infof("Running %s simulator for %s (speed=%.2f time_scale=%.2f)",
			simKind, simDuration, *sc.Simulators.Speed, *sc.Simulators.TimeScale)
		n := runSimulation(ctx, os.Stdout, r, simDuration, simPoll)
		logrus.Infof("Simulation complete: %d events.", n)
	},
}

// resolveSimulateScenario layers scenario file, preset and explicit flags,
// in increasing precedence.
func resolveSimulateScenario(cmd *cobra.Command) (*sim.Scenario, error) {
	if simPoll <= 0 {
		return nil, fmt.Errorf("--poll must be positive, got %s", simPoll)
	}
	sc := &sim.Scenario{}
	if simScenarioPath != "" {
		loaded, err := sim.LoadScenario(simScenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	s := &sc.Simulators

	if simPreset != "" {
		p, err := GetPacingPreset(defaultsFilePath, simPreset)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q in %s", simPreset, defaultsFilePath)
		}
		s.Speed, s.TimeScale, s.Jitter = &p.Speed, &p.TimeScale, &p.Jitter
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		s.Speed = &simSpeed
	}
	if flags.Changed("time-scale") {
		s.TimeScale = &simTimeScale
	}
	if flags.Changed("jitter") {
		s.Jitter = &simJitter
	}
	if flags.Changed("seed") {
		s.Seed = simSeed
	}
	if flags.Changed("processes") {
		s.Lifecycle.Processes = simProcesses
	}
	if flags.Changed("producers") {
		if simKind == SimIPC {
			s.IPC.Producers = simProducers
		} else {
			s.Semaphore.Producers = simProducers
		}
	}
	if flags.Changed("consumers") {
		if simKind == SimIPC {
			s.IPC.Consumers = simConsumers
		} else {
			s.Semaphore.Consumers = simConsumers
		}
	}
	if flags.Changed("capacity") {
		s.Semaphore.Capacity = simCapacity
	}

	sc.WithDefaults()
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}

// liveConfig converts scenario simulator settings into pacing config.
// Call after WithDefaults.
func liveConfig(s sim.SimulatorsConfig) live.Config {
	return live.Config{Speed: *s.Speed, TimeScale: *s.TimeScale, Jitter: *s.Jitter, Seed: s.Seed}
}

// runner adapts one live simulator to the simulate loop.
type runner struct {
	start  func()
	reset  func()
	drain  func() []fmt.Stringer
	status func() string
}

func newRunner(kind string, sc *sim.Scenario) *runner {
	cfg := liveConfig(sc.Simulators)
	sem := sc.Simulators.Semaphore
	switch kind {
	case SimLifecycle:
		s := lifecycle.New(cfg)
		return &runner{
			start:  func() { s.Start(sc.Simulators.Lifecycle.Processes) },
			reset:  s.Reset,
			drain:  func() []fmt.Stringer { return stringers(s.Drain(0)) },
			status: func() string { return "" },
		}
	case SimIPC:
		s := ipc.New(cfg)
		counts := sc.Simulators.IPC
		return &runner{
			start: func() { s.Start(counts.Producers, counts.Consumers) },
			reset: s.Reset,
			drain: func() []fmt.Stringer { return stringers(s.Drain(0)) },
			status: func() string {
				size, capacity := s.Occupancy()
				return fmt.Sprintf("buffer %d/%d", size, capacity)
			},
		}
	case SimSemaphore:
		s := semaphore.NewSimulator(cfg, sem.Capacity)
		return &runner{
			start: func() { s.Start(sem.Producers, sem.Consumers) },
			reset: s.Reset,
			drain: func() []fmt.Stringer { return stringers(s.Drain(0)) },
			status: func() string {
				snap := s.Snapshot()
				return fmt.Sprintf("semaphore %d/%d blocked=%v", snap.Value, snap.Capacity, snap.Blocked)
			},
		}
	default:
		panic(fmt.Sprintf("unhandled simulator %q", kind))
	}
}

func stringers[T fmt.Stringer](events []T) []fmt.Stringer {
	out := make([]fmt.Stringer, len(events))
	for i, ev := range events {
		out[i] = ev
	}
	return out
}

// runSimulation starts r, prints its events every poll interval until d
// elapses or ctx is cancelled, then resets it. Returns the number of events
// printed.
func runSimulation(ctx context.Context, w io.Writer, r *runner, d, poll time.Duration) int {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	begin := time.Now()
	printed := 0
	flush := func() {
		for events := r.drain(); len(events) > 0; events = r.drain() {
			elapsed := time.Since(begin).Seconds()
			for _, ev := range events {
				fmt.Fprintf(w, "[%7.2fs] %s\n", elapsed, ev)
			}
			printed += len(events)
		}
	}

	r.start()
	defer r.reset()
	for {
		select {
		case <-ctx.Done():
			flush()
			if status := r.status(); status != "" {
				fmt.Fprintln(w, status)
			}
			return printed
		case <-ticker.C:
			flush()
		}
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simKind, "sim", SimLifecycle, "Simulator to run (lifecycle, ipc, semaphore)")
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 3*time.Second, "Wall-clock run time")
	simulateCmd.Flags().DurationVar(&simPoll, "poll", 100*time.Millisecond, "Event drain interval")
	simulateCmd.Flags().StringVar(&simScenarioPath, "scenario", "", "Path to scenario YAML file")
	simulateCmd.Flags().StringVar(&simPreset, "preset", "", "Pacing preset from defaults.yaml")
	simulateCmd.Flags().Float64Var(&simSpeed, "speed", 1.0, "Initial speed factor")
	simulateCmd.Flags().Float64Var(&simTimeScale, "time-scale", 1.0, "Multiplier on nominal step delays")
	simulateCmd.Flags().Float64Var(&simJitter, "jitter", 0, "Relative pacing jitter in [0, 1)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 42, "Seed for pacing jitter")
	simulateCmd.Flags().IntVar(&simProcesses, "processes", 0, "Number of lifecycle processes (0 = scenario or default)")
	simulateCmd.Flags().IntVar(&simProducers, "producers", 0, "Number of producers for ipc or semaphore (0 = scenario or default)")
	simulateCmd.Flags().IntVar(&simConsumers, "consumers", 0, "Number of consumers for ipc or semaphore (0 = scenario or default)")
	simulateCmd.Flags().IntVar(&simCapacity, "capacity", 0, "Semaphore capacity (0 = scenario or default)")

	rootCmd.AddCommand(simulateCmd)
}
