package capture

import "time"

// ActivityGate switches between idle and active capture. Motion activates it
// immediately; it returns to idle only after IdleTimeout without motion.
type ActivityGate struct {
	idleTimeout time.Duration
	active      bool
	lastMotion  time.Time
}

// NewActivityGate returns an idle gate.
func NewActivityGate(idleTimeout time.Duration) *ActivityGate {
	return &ActivityGate{idleTimeout: idleTimeout}
}

// Observe records one frame's motion result and returns the resulting state
// and whether it changed on this frame.
func (g *ActivityGate) Observe(motion bool, now time.Time) (active, changed bool) {
	if motion {
		g.lastMotion = now
		if !g.active {
			g.active = true
			return true, true
		}
		return true, false
	}

	if g.active && now.Sub(g.lastMotion) > g.idleTimeout {
		g.active = false
		return false, true
	}
	return g.active, false
}

// Active reports the current state.
func (g *ActivityGate) Active() bool { return g.active }

// Reset returns the gate to idle.
func (g *ActivityGate) Reset() {
	g.active = false
	g.lastMotion = time.Time{}
}
