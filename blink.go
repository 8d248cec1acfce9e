package avatar

import (
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"
)

// RandSource yields uniform integers in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	Int64N(n int64) int64
}

// globalRand draws from the math/rand/v2 process-global source.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// BlinkScheduler decides when the next blink episode starts. After each
// episode the next one is scheduled a base interval plus a uniform random
// jitter in the future.
type BlinkScheduler struct {
	clock     clock.Clock
	rng       RandSource
	interval  time.Duration
	variation time.Duration

	nextBlinkAt time.Time
	startedAt   time.Time
	blinking    bool
}

// NewBlinkScheduler creates a scheduler and schedules the first blink. A nil
// clk uses the wall clock and a nil rng the process-global random source.
func NewBlinkScheduler(clk clock.Clock, rng RandSource, interval, variation time.Duration) *BlinkScheduler {
	if clk == nil {
		clk = clock.New()
	}
	if rng == nil {
		rng = globalRand{}
	}
	b := &BlinkScheduler{
		clock:     clk,
		rng:       rng,
		interval:  max(interval, 0),
		variation: max(variation, 0),
	}
	b.Reschedule()
	return b
}

// ShouldBlink reports whether a blink is due: no blink is in progress and
// the scheduled time has been reached.
func (b *BlinkScheduler) ShouldBlink() bool {
	return !b.blinking && !b.clock.Now().Before(b.nextBlinkAt)
}

// Reschedule sets the next blink to now + interval + U[0, variation).
func (b *BlinkScheduler) Reschedule() {
	var jitter time.Duration
	if b.variation > 0 {
		jitter = time.Duration(b.rng.Int64N(int64(b.variation)))
	}
	b.nextBlinkAt = b.clock.Now().Add(b.interval + jitter)
}

// NextBlinkAt returns the scheduled start of the next blink.
func (b *BlinkScheduler) NextBlinkAt() time.Time {
	return b.nextBlinkAt
}

// Blinking reports whether a blink episode is in progress.
func (b *BlinkScheduler) Blinking() bool {
	return b.blinking
}

// StartedAt returns when the current blink began. Only meaningful while
// Blinking is true.
func (b *BlinkScheduler) StartedAt() time.Time {
	return b.startedAt
}

// begin marks the start of a blink episode.
func (b *BlinkScheduler) begin() {
	b.blinking = true
	b.startedAt = b.clock.Now()
}

// end closes the current episode and schedules the next one.
func (b *BlinkScheduler) end() {
	b.blinking = false
	b.startedAt = time.Time{}
	b.Reschedule()
}
