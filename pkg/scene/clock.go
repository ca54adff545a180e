package scene

import "time"

// Clock supplies the current time to the engines. Injecting it keeps
// cooldown and persistence comparisons deterministic in tests and replay.
// Implementations must return monotonically non-decreasing values.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// ManualClock is a Clock whose time only moves when told to.
// Used by tests and by trace replay.
type ManualClock struct {
	t time.Time
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward. Negative durations are ignored so the
// clock stays non-decreasing.
func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.t = c.t.Add(d)
	}
}

// Verify implementations at compile time.
var (
	_ Clock = systemClock{}
	_ Clock = (*ManualClock)(nil)
)
