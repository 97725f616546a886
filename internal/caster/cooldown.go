package caster

import "time"

// Cooldown is a dead time after each classification attempt. Attempts that
// land inside it are dropped, not queued.
type Cooldown struct {
	duration time.Duration
	until    time.Time
}

// NewCooldown creates a gate that is ready immediately.
func NewCooldown(d time.Duration) *Cooldown {
	return &Cooldown{duration: d}
}

// Ready reports whether an attempt at now may be classified.
func (c *Cooldown) Ready(now time.Time) bool {
	return !now.Before(c.until)
}

// Start begins a cooldown at now.
func (c *Cooldown) Start(now time.Time) {
	c.until = now.Add(c.duration)
}

// Remaining returns how long until the gate opens again.
func (c *Cooldown) Remaining(now time.Time) time.Duration {
	if c.Ready(now) {
		return 0
	}
	return c.until.Sub(now)
}

// Reset opens the gate.
func (c *Cooldown) Reset() {
	c.until = time.Time{}
}
