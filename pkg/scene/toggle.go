package scene

import (
	"time"

	"github.com/sightlinelabs/go-sightline/pkg/vision"
)

// Toggle flips watchdog mode when the trigger object appears in front of
// the camera. The flip is edge-triggered: the trigger must leave the frame
// before it can flip the mode again, and flips are rate-limited by a
// cooldown so a lingering trigger does not bounce the mode.
type Toggle struct {
	cfg   ToggleConfig
	clock Clock

	lastSwitch time.Time
	wasPresent bool
	enabled    bool
}

// NewToggle creates a mode toggle with the given configuration and clock.
func NewToggle(cfg ToggleConfig, clock Clock) *Toggle {
	if clock == nil {
		clock = SystemClock()
	}
	return &Toggle{cfg: cfg, clock: clock}
}

// Observe consumes one frame and reports whether the mode flipped on this
// tick, along with the resulting mode.
func (t *Toggle) Observe(frame []vision.Detection) (flipped, enabled bool) {
	now := t.clock.Now()
	present := vision.Contains(frame, t.cfg.Trigger)

	if present && !t.wasPresent && now.Sub(t.lastSwitch) > t.cfg.Cooldown {
		t.enabled = !t.enabled
		t.lastSwitch = now
		flipped = true
	}

	t.wasPresent = present
	return flipped, t.enabled
}

// Enabled returns the current mode without consuming a frame.
func (t *Toggle) Enabled() bool { return t.enabled }
