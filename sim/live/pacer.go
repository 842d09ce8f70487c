package live

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

const (
	// SpeedStep is the factor applied by SpeedUp and SpeedDown.
	SpeedStep = 1.2
	// MinSpeed bounds the divisor of every pacing delay.
	MinSpeed = 0.1
	// MinDelay is the shortest pacing sleep.
	MinDelay = 10 * time.Millisecond
)

// Config holds pacing settings shared by the live simulators.
type Config struct {
	Speed     float64       // initial speed factor; <= 0 means 1.0
	TimeScale float64       // multiplier on base delays; <= 0 means 1.0
	MinDelay  time.Duration // floor on each sleep; <= 0 means MinDelay
	Jitter    float64       // relative jitter in [0, 1); 0 disables it
	Seed      int64         // seeds per-actor jitter streams
}

// Pacer converts nominal step delays into wall-clock sleeps under a
// user-controlled speed factor. Speed may be changed at any time from any
// goroutine; sleeps already in progress keep their duration.
type Pacer struct {
	speed     atomic.Uint64 // math.Float64bits of the speed factor
	timeScale float64
	minDelay  time.Duration
	jitter    float64
}

// NewPacer creates a pacer from cfg, defaulting unset fields.
func NewPacer(cfg Config) *Pacer {
	p := &Pacer{timeScale: cfg.TimeScale, minDelay: cfg.MinDelay, jitter: cfg.Jitter}
	if p.timeScale <= 0 {
		p.timeScale = 1.0
	}
	if p.minDelay <= 0 {
		p.minDelay = MinDelay
	}
	if p.jitter < 0 || p.jitter >= 1 {
		p.jitter = 0
	}
	p.SetSpeed(cfg.Speed)
	return p
}

// Speed returns the current speed factor.
func (p *Pacer) Speed() float64 {
	return math.Float64frombits(p.speed.Load())
}

// SetSpeed sets the speed factor; f <= 0 resets it to 1.0.
func (p *Pacer) SetSpeed(f float64) {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 1.0
	}
	p.speed.Store(math.Float64bits(f))
}

// SpeedUp multiplies the speed factor by SpeedStep.
func (p *Pacer) SpeedUp() { p.scale(SpeedStep) }

// SpeedDown divides the speed factor by SpeedStep.
func (p *Pacer) SpeedDown() { p.scale(1 / SpeedStep) }

func (p *Pacer) scale(by float64) {
	for {
		old := p.speed.Load()
		next := math.Float64bits(math.Float64frombits(old) * by)
		if p.speed.CompareAndSwap(old, next) {
			return
		}
	}
}

// Delay returns the sleep duration for a nominal delay of base at the
// current speed: max(minDelay, base*timeScale/max(MinSpeed, speed)).
// When rng is non-nil and jitter is configured, the result is spread
// uniformly by ±jitter before the floor is applied.
func (p *Pacer) Delay(base time.Duration, rng *rand.Rand) time.Duration {
	d := float64(base) * p.timeScale / math.Max(MinSpeed, p.Speed())
	if rng != nil && p.jitter > 0 {
		d *= 1 + p.jitter*(2*rng.Float64()-1)
	}
	return max(p.minDelay, time.Duration(d))
}

// Sleep waits for Delay(base, rng) or until ctx is done, returning ctx.Err()
// in the latter case.
func (p *Pacer) Sleep(ctx context.Context, base time.Duration, rng *rand.Rand) error {
	timer := time.NewTimer(p.Delay(base, rng))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Seconds converts a nominal delay in seconds to a Duration.
func Seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
