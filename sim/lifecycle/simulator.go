package lifecycle

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/oslab/sim"
	"github.com/inference-sim/oslab/sim/live"
)

// Simulator runs N process actors through the lifecycle script.
//
// Pause only clears the running flag: an actor checks it once, just before
// its first transition into Running, and otherwise runs to Terminated.
// Reset cancels every actor and discards pending events.
type Simulator struct {
	mu      sync.Mutex // serializes control operations
	cfg     live.Config
	pacer   *live.Pacer
	group   live.Group
	events  *live.EventQueue[Event]
	count   int
	started bool
	runs    int64 // launches so far; selects the jitter streams of the next run
}

// New creates an idle simulator.
func New(cfg live.Config) *Simulator {
	return &Simulator{
		cfg:    cfg,
		pacer:  live.NewPacer(cfg),
		events: live.NewEventQueue[Event](),
	}
}

// Start launches n process actors with PIDs 1..n. n <= 0 uses
// sim.DefaultLifecycleProcesses. No-op while running.
func (s *Simulator) Start(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group.Running() {
		return
	}
	if n <= 0 {
		n = sim.DefaultLifecycleProcesses
	}
	s.count = n
	s.started = true
	s.launch()
}

// Pause clears the running flag. Actors already past their Running check
// continue to Terminated.
func (s *Simulator) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.group.Halt()
	logrus.Debugf("lifecycle: paused run %s", s.group.Run())
}

// Resume launches a fresh set of actors when paused or when the previous
// run has finished. No-op before Start.
func (s *Simulator) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.group.Running() {
		return
	}
	s.launch()
}

// Reset cancels all actors, waits for them to exit and clears the event
// queue. A later Start begins from scratch.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.Cancel()
	if err := s.group.Wait(); err != nil {
		logrus.Warnf("lifecycle: actor failed: %v", err)
	}
	s.events.Clear()
	s.started = false
	logrus.Debug("lifecycle: reset")
}

// Drain removes and returns up to max pending events.
func (s *Simulator) Drain(max int) []Event { return s.events.Drain(max) }

// Running reports whether the latest run has processes still live and has
// not been paused or reset.
func (s *Simulator) Running() bool { return s.group.Running() }

// SpeedUp multiplies the pacing speed by live.SpeedStep.
func (s *Simulator) SpeedUp() { s.pacer.SpeedUp() }

// SpeedDown divides the pacing speed by live.SpeedStep.
func (s *Simulator) SpeedDown() { s.pacer.SpeedDown() }

// SetSpeed sets the pacing speed; f <= 0 resets it to 1.0.
func (s *Simulator) SetSpeed(f float64) { s.pacer.SetSpeed(f) }

// Speed returns the current pacing speed.
func (s *Simulator) Speed() float64 { return s.pacer.Speed() }

// launch must be called with s.mu held.
func (s *Simulator) launch() {
	seeds := sim.Seeds(s.cfg.Seed).Run(sim.SubsystemLifecycle, s.runs)
	s.runs++
	actors := make([]live.Actor, s.count)
	for i := range actors {
		pid := i + 1
		rng := seeds.Actor("P", pid)
		actors[i] = func(ctx context.Context, run uuid.UUID) error {
			return s.runProcess(ctx, run, pid, rng)
		}
	}
	run, _ := s.group.Launch(actors...)
	logrus.Debugf("lifecycle: launched run %s with %d processes", run, s.count)
}

func (s *Simulator) runProcess(ctx context.Context, run uuid.UUID, pid int, rng *rand.Rand) error {
	for i, st := range script {
		if i == firstRunning && !s.group.Running() {
			return nil
		}
		s.events.Push(Event{Run: run, PID: pid, State: st.state})
		if st.delay == 0 {
			continue
		}
		if err := s.pacer.Sleep(ctx, live.Seconds(st.delay), rng); err != nil {
			return err
		}
	}
	return nil
}
