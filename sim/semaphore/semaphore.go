// Package semaphore provides a counting semaphore with an observable value
// and a simulator of producers and consumers contending for it.
package semaphore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a counting semaphore whose value stays within [0, capacity].
// Waiters are not served in any guaranteed order.
type Semaphore struct {
	w *semaphore.Weighted

	mu       sync.Mutex
	value    int
	capacity int
}

// New creates a semaphore with value == capacity. Negative capacities are
// clamped to zero.
func New(capacity int) *Semaphore {
	capacity = max(capacity, 0)
	return &Semaphore{
		w:        semaphore.NewWeighted(int64(capacity)),
		value:    capacity,
		capacity: capacity,
	}
}

// Acquire blocks until a unit is available or ctx is done, and returns the
// value after the decrement. On error the value is unchanged.
func (s *Semaphore) Acquire(ctx context.Context) (int, error) {
	if err := s.w.Acquire(ctx, 1); err != nil {
		return s.Value(), err
	}
	return s.take(), nil
}

// TryAcquire takes a unit without blocking. It reports false, leaving the
// value unchanged, when none is available.
func (s *Semaphore) TryAcquire() (int, bool) {
	if !s.w.TryAcquire(1) {
		return s.Value(), false
	}
	return s.take(), true
}

func (s *Semaphore) take() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value--
	return s.value
}

// Release returns a unit and the value after the increment.
// Releasing more units than were acquired is an invariant violation and panics.
func (s *Semaphore) Release() int {
	s.mu.Lock()
	if s.value >= s.capacity {
		s.mu.Unlock()
		panic("semaphore: release above capacity")
	}
	s.value++
	v := s.value
	s.mu.Unlock()

	s.w.Release(1)
	return v
}

// Value returns the number of currently available units.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Capacity returns the initial and maximum value.
func (s *Semaphore) Capacity() int {
	return s.capacity
}
