package semaphore

import (
	"sort"
	"sync"
)

// Role identifies the kind of actor contending for the semaphore.
type Role string

const (
	Producer Role = "P"
	Consumer Role = "C"
)

// Waiter identifies one actor. IDs are 1-based per role.
type Waiter struct {
	Role Role `json:"role"`
	ID   int  `json:"id"`
}

// roster is the set of actors that found the semaphore at zero and have not
// yet acquired it.
type roster struct {
	mu      sync.Mutex
	waiters map[Waiter]struct{}
}

func newRoster() *roster {
	return &roster{waiters: make(map[Waiter]struct{})}
}

func (r *roster) add(w Waiter) {
	r.mu.Lock()
	r.waiters[w] = struct{}{}
	r.mu.Unlock()
}

func (r *roster) remove(w Waiter) {
	r.mu.Lock()
	delete(r.waiters, w)
	r.mu.Unlock()
}

func (r *roster) clear() {
	r.mu.Lock()
	clear(r.waiters)
	r.mu.Unlock()
}

// list returns the waiters sorted by role, then ID.
func (r *roster) list() []Waiter {
	r.mu.Lock()
	out := make([]Waiter, 0, len(r.waiters))
	for w := range r.waiters {
		out = append(out, w)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].ID < out[j].ID
	})
	return out
}
