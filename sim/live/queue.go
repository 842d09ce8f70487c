package live

import "sync"

// DefaultBatch is the number of events returned by Drain when max <= 0.
const DefaultBatch = 128

// EventQueue is an unbounded FIFO of events, safe for concurrent producers
// and a single draining observer.
type EventQueue[T any] struct {
	mu     sync.Mutex
	events []T
}

// NewEventQueue creates an empty queue.
func NewEventQueue[T any]() *EventQueue[T] {
	return &EventQueue[T]{}
}

// Push appends ev. Never blocks on the observer.
func (q *EventQueue[T]) Push(ev T) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain removes and returns up to max events in arrival order.
// A returned event is never returned again.
func (q *EventQueue[T]) Drain(max int) []T {
	if max <= 0 {
		max = DefaultBatch
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(max, len(q.events))
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	copy(out, q.events[:n])
	clear(q.events[:n])
	q.events = q.events[n:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return out
}

// Len returns the number of pending events.
func (q *EventQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Clear discards every pending event.
func (q *EventQueue[T]) Clear() {
	q.mu.Lock()
	q.events = nil
	q.mu.Unlock()
}
