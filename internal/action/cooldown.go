package action

import "time"

// Cooldown enforces a minimum interval between firings. Timestamps should
// come from time.Now so comparisons use the monotonic clock.
type Cooldown struct {
	Interval time.Duration

	last  time.Time
	fired bool
}

// NewCooldown creates a cooldown with the given interval.
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{Interval: interval}
}

// Allow reports whether the action may fire at now and, if so, records it.
func (c *Cooldown) Allow(now time.Time) bool {
	if c.fired && now.Sub(c.last) < c.Interval {
		return false
	}
	c.last = now
	c.fired = true
	return true
}

// Reset forgets the last firing.
func (c *Cooldown) Reset() {
	c.fired = false
	c.last = time.Time{}
}
