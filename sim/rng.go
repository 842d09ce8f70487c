package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Simulator names used to derive jitter streams.
const (
	SubsystemLifecycle = "lifecycle"
	SubsystemIPC       = "ipc"
	SubsystemSemaphore = "semaphore"
)

// Seeds is a master seed. It hands out independent random streams: one for
// process-set generation and one per actor per launch of a live simulator,
// so adding an actor or relaunching never shifts another stream.
type Seeds int64

// Workload returns the generator stream. It is seeded with the master seed
// itself, so `generate --seed N` draws exactly what rand.NewSource(N) does.
func (s Seeds) Workload() *rand.Rand {
	return rand.New(rand.NewSource(int64(s)))
}

// Run returns the seeds for launch number run (0-based) of simulator name.
func (s Seeds) Run(name string, run int64) RunSeeds {
	return RunSeeds{master: int64(s), prefix: fmt.Sprintf("%s#%d/", name, run)}
}

// RunSeeds derives per-actor streams within one launch.
type RunSeeds struct {
	master int64
	prefix string
}

// Actor returns a fresh stream for the actor role+id, e.g. ("P", 2).
// Each call builds a new *rand.Rand, so the result can be owned by a
// single goroutine without locking.
func (r RunSeeds) Actor(role string, id int) *rand.Rand {
	return rand.New(rand.NewSource(r.actorSeed(role, id)))
}

func (r RunSeeds) actorSeed(role string, id int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s%s%d", r.prefix, role, id)
	return r.master ^ int64(h.Sum64())
}
