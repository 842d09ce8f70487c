// Package ipc simulates producers and consumers exchanging items through a
// fixed-capacity FIFO buffer.
package ipc

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

// Capacity is the number of items the buffer holds.
const Capacity = 8

// Nominal pacing after each buffer operation, in seconds.
const (
	ProducerDelay = 0.4
	ConsumerDelay = 0.6
)

// Item is one buffer entry. Seq numbers are assigned in insertion order.
type Item struct {
	Seq   int64 `json:"seq"`
	Value int64 `json:"value"` // 2 * Seq
}

// EventType distinguishes buffer insertions from removals.
type EventType string

const (
	Produce EventType = "produce"
	Consume EventType = "consume"
)

// Event records one item entering or leaving the buffer.
type Event struct {
	Run   uuid.UUID `json:"run"`
	Type  EventType `json:"type"`
	Actor int       `json:"actor"`
	Item  Item      `json:"item"`
}

func (e Event) String() string {
	role := "P"
	if e.Type == Consume {
		role = "C"
	}
	return fmt.Sprintf("%s%d %s seq=%d value=%d", role, e.Actor, e.Type, e.Item.Seq, e.Item.Value)
}

// Simulator runs producer and consumer actors over a bounded buffer.
//
// A producer reserves a slot, then inserts and records the event under mu,
// so every produce event precedes the consume event for the same item.
// Pause cancels the run: actors parked on a full or empty buffer exit.
type Simulator struct {
	ctl       sync.Mutex // serializes control operations
	cfg       live.Config
	pacer     *live.Pacer
	group     live.Group
	events    *live.EventQueue[Event]
	producers int
	consumers int
	started   bool
	runs      int64

	slots  chan struct{} // one token per reserved or occupied slot
	buffer chan Item

	mu  sync.Mutex // orders insert/remove with their events
	seq int64
}

// New creates an idle simulator with an empty buffer.
func New(cfg live.Config) *Simulator {
	return &Simulator{
		cfg:    cfg,
		pacer:  live.NewPacer(cfg),
		events: live.NewEventQueue[Event](),
		slots:  make(chan struct{}, Capacity),
		buffer: make(chan Item, Capacity),
	}
}

// Start launches the given number of producers and consumers; zero counts
// default to one each. No-op while running.
func (s *Simulator) Start(producers, consumers int) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.group.Running() {
		return
	}
	s.producers = max(producers, 1)
	s.consumers = max(consumers, 1)
	s.started = true
	s.launch()
}

// Pause stops all actors. Buffered items and the sequence counter are kept.
func (s *Simulator) Pause() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if !s.started {
		return
	}
	s.group.Cancel()
	logrus.Debugf("ipc: paused run %s", s.group.Run())
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

// Reset stops all actors, empties the buffer and the event queue and
// restarts sequence numbers at 0.
func (s *Simulator) Reset() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.group.Cancel()
	s.join()
	for len(s.buffer) > 0 {
		<-s.buffer
	}
	for len(s.slots) > 0 {
		<-s.slots
	}
	s.mu.Lock()
	s.seq = 0
	s.mu.Unlock()
	s.events.Clear()
	s.started = false
	logrus.Debug("ipc: reset")
}

// Occupancy returns the current buffer size and its capacity.
func (s *Simulator) Occupancy() (size, capacity int) {
	return len(s.buffer), cap(s.buffer)
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
		logrus.Warnf("ipc: actor failed: %v", err)
	}
}

// launch must be called with s.ctl held.
func (s *Simulator) launch() {
	seeds := sim.Seeds(s.cfg.Seed).Run(sim.SubsystemIPC, s.runs)
	s.runs++
	actors := make([]live.Actor, 0, s.producers+s.consumers)
	for id := 1; id <= s.producers; id++ {
		id := id
		rng := seeds.Actor("P", id)
		actors = append(actors, func(ctx context.Context, run uuid.UUID) error {
			return s.producer(ctx, run, id, rng)
		})
	}
	for id := 1; id <= s.consumers; id++ {
		id := id
		rng := seeds.Actor("C", id)
		actors = append(actors, func(ctx context.Context, run uuid.UUID) error {
			return s.consumer(ctx, run, id, rng)
		})
	}
	run, _ := s.group.Launch(actors...)
	logrus.Debugf("ipc: launched run %s with %d producers, %d consumers", run, s.producers, s.consumers)
}

func (s *Simulator) producer(ctx context.Context, run uuid.UUID, id int, rng *rand.Rand) error {
	for {
		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
		item := Item{Seq: s.seq, Value: 2 * s.seq}
		s.buffer <- item // a slot is reserved, never blocks
		s.seq++
		s.events.Push(Event{Run: run, Type: Produce, Actor: id, Item: item})
		s.mu.Unlock()

		if err := s.pacer.Sleep(ctx, live.Seconds(ProducerDelay), rng); err != nil {
			return err
		}
	}
}

func (s *Simulator) consumer(ctx context.Context, run uuid.UUID, id int, rng *rand.Rand) error {
	for {
		var item Item
		select {
		case item = <-s.buffer:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
		s.events.Push(Event{Run: run, Type: Consume, Actor: id, Item: item})
		s.mu.Unlock()
		<-s.slots

		if err := s.pacer.Sleep(ctx, live.Seconds(ConsumerDelay), rng); err != nil {
			return err
		}
	}
}
