package semaphore

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/oslab/sim"
	"github.com/inference-sim/oslab/sim/live"
)

// EventType names a step of an actor's acquire/release cycle.
type EventType string

const (
	Try     EventType = "try"
	Acquire EventType = "acquire"
	Release EventType = "release"
)

// Event records one step. Value is the semaphore value observed at the
// step: after the decrement for Acquire, after the increment for Release.
type Event struct {
	Run   uuid.UUID `json:"run"`
	Type  EventType `json:"type"`
	Role  Role      `json:"role"`
	ID    int       `json:"id"`
	Value int       `json:"value"`
}

func (e Event) String() string {
	if e.Type == Try {
		return fmt.Sprintf("%s%d %s", e.Role, e.ID, e.Type)
	}
	return fmt.Sprintf("%s%d %s value=%d", e.Role, e.ID, e.Type, e.Value)
}

// Snapshot is a point-in-time view of the semaphore and its blocked roster.
type Snapshot struct {
	Value    int      `json:"value"`
	Capacity int      `json:"capacity"`
	Blocked  []Waiter `json:"blocked"`
}

// pacing holds the nominal hold and rest times of a role, in seconds.
type pacing struct {
	hold float64
	rest float64
}

var rolePacing = map[Role]pacing{
	Producer: {hold: 0.5, rest: 0.4},
	Consumer: {hold: 0.6, rest: 0.5},
}

// Simulator runs producer and consumer actors that repeatedly acquire the
// semaphore, hold it, and release it.
//
// An actor joins the roster when a non-blocking acquire fails and leaves it
// once the blocking acquire returns. Pause cancels the run: blocked actors
// leave the roster and exit, and an actor holding a unit releases it before
// exiting.
type Simulator struct {
	ctl       sync.Mutex // serializes control operations
	cfg       live.Config
	pacer     *live.Pacer
	group     live.Group
	events    *live.EventQueue[Event]
	sem       *Semaphore
	roster    *roster
	producers int
	consumers int
	started   bool
	runs      int64

	mu sync.Mutex // orders releases with their events
}

// NewSimulator creates an idle simulator. capacity <= 0 uses
// sim.DefaultSemaphoreCapacity.
func NewSimulator(cfg live.Config, capacity int) *Simulator {
	if capacity <= 0 {
		capacity = sim.DefaultSemaphoreCapacity
	}
	return &Simulator{
		cfg:    cfg,
		pacer:  live.NewPacer(cfg),
		events: live.NewEventQueue[Event](),
		sem:    New(capacity),
		roster: newRoster(),
	}
}

// Start launches producers and consumers; zero counts use the package
// defaults. No-op while running.
func (s *Simulator) Start(producers, consumers int) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.group.Running() {
		return
	}
	if producers <= 0 {
		producers = sim.DefaultSemaphoreProducers
	}
	if consumers <= 0 {
		consumers = sim.DefaultSemaphoreConsumers
	}
	s.producers, s.consumers = producers, consumers
	s.started = true
	s.launch()
}

// Pause stops all actors.
func (s *Simulator) Pause() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if !s.started {
		return
	}
	s.group.Cancel()
	logrus.Debugf("semaphore: paused run %s", s.group.Run())
}

// Resume joins the paused actors and launches fresh ones when not running.
func (s *Simulator) Resume() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if !s.started || s.group.Running() {
		return
	}
	s.join()
	s.launch()
}

// Reset stops all actors and clears the event queue and the roster.
func (s *Simulator) Reset() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.group.Cancel()
	s.join()
	s.events.Clear()
	s.roster.clear()
	s.started = false
	logrus.Debug("semaphore: reset")
}

// Snapshot returns the semaphore value, its capacity and the blocked roster.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{Value: s.sem.Value(), Capacity: s.sem.Capacity(), Blocked: s.roster.list()}
}

// Drain removes and returns up to max pending events.
func (s *Simulator) Drain(max int) []Event { return s.events.Drain(max) }

// Running reports whether the latest run is active.
func (s *Simulator) Running() bool { return s.group.Running() }

// SpeedUp multiplies the pacing speed by live.SpeedStep.
func (s *Simulator) SpeedUp() { s.pacer.SpeedUp() }

// SpeedDown divides the pacing speed by live.SpeedStep.
func (s *Simulator) SpeedDown() { s.pacer.SpeedDown() }

// SetSpeed sets the pacing speed; f <= 0 resets it to 1.0.
func (s *Simulator) SetSpeed(f float64) { s.pacer.SetSpeed(f) }

// Speed returns the current pacing speed.
func (s *Simulator) Speed() float64 { return s.pacer.Speed() }

func (s *Simulator) join() {
	if err := s.group.Wait(); err != nil {
		logrus.Warnf("semaphore: actor failed: %v", err)
	}
}

// launch must be called with s.ctl held.
func (s *Simulator) launch() {
	seeds := sim.Seeds(s.cfg.Seed).Run(sim.SubsystemSemaphore, s.runs)
	s.runs++
	var actors []live.Actor
	add := func(role Role, n int) {
		for id := 1; id <= n; id++ {
			w := Waiter{Role: role, ID: id}
			rng := seeds.Actor(string(role), id)
			actors = append(actors, func(ctx context.Context, run uuid.UUID) error {
				return s.actor(ctx, run, w, rng)
			})
		}
	}
	add(Producer, s.producers)
	add(Consumer, s.consumers)
	run, _ := s.group.Launch(actors...)
	logrus.Debugf("semaphore: launched run %s with %d producers, %d consumers (capacity %d)",
		run, s.producers, s.consumers, s.sem.Capacity())
}

func (s *Simulator) actor(ctx context.Context, run uuid.UUID, w Waiter, rng *rand.Rand) error {
	p := rolePacing[w.Role]
	emit := func(typ EventType, value int) {
		s.events.Push(Event{Run: run, Type: typ, Role: w.Role, ID: w.ID, Value: value})
	}
	for {
		emit(Try, s.sem.Value())
		v, ok := s.sem.TryAcquire()
		if !ok {
			s.roster.add(w)
			var err error
			v, err = s.sem.Acquire(ctx)
			s.roster.remove(w)
			if err != nil {
				return err
			}
		}
		s.mu.Lock()
		emit(Acquire, v)
		s.mu.Unlock()

		err := s.pacer.Sleep(ctx, live.Seconds(p.hold), rng)
		s.mu.Lock()
		emit(Release, s.sem.Release())
		s.mu.Unlock()
		if err != nil {
			return err
		}
		if err := s.pacer.Sleep(ctx, live.Seconds(p.rest), rng); err != nil {
			return err
		}
	}
}
