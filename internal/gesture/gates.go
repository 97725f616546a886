package gesture

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// GateConfig holds the thresholds of the closed-form shape gates.
type GateConfig struct {
	// RoundMinPoints is the fewest points the round gate will look at.
	RoundMinPoints int
	// RoundMaxSpread is the largest allowed std(radius)/mean(radius).
	RoundMaxSpread float64
	// RoundMinRadius is the smallest mean radius in pixels.
	RoundMinRadius float64
	// RoundMinSweep is the smallest net angle (radians) swept around the centroid.
	RoundMinSweep float64

	// JaggedMinPoints is the fewest points the jagged gate will look at.
	JaggedMinPoints int
	// JaggedMinTurn is the smallest total unsigned turning (radians).
	JaggedMinTurn float64
	// JaggedMinFlips is the fewest left/right direction reversals.
	JaggedMinFlips int

	// StraightMinPoints is the fewest points the straight gate will look at.
	StraightMinPoints int
	// StraightMaxTurn is the largest total unsigned turning (radians).
	StraightMaxTurn float64
	// StraightMinAspect is the smallest bounding-box elongation.
	StraightMinAspect float64
}

// DefaultGateConfig returns thresholds tuned to be forgiving of webcam tracking.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		RoundMinPoints: 18,
		RoundMaxSpread: 0.35,
		RoundMinRadius: 30,
		RoundMinSweep:  math.Pi * 1.7, // ~306 degrees

		JaggedMinPoints: 12,
		JaggedMinTurn:   3.2,
		JaggedMinFlips:  3,

		StraightMinPoints: 8,
		StraightMaxTurn:   2.5,
		StraightMinAspect: 1.2,
	}
}

// WeakGateConfig returns relaxed jagged/straight thresholds used only by
// the final tie-break, where a stroke failed every strict test.
func WeakGateConfig() GateConfig {
	g := DefaultGateConfig()
	g.JaggedMinTurn = 2.4
	g.JaggedMinFlips = 2
	g.StraightMaxTurn = 3.5
	g.StraightMinAspect = 1.1
	return g
}

// IsRound reports whether pts close a near-full loop of near-constant
// radius around their centroid. Tightness, size and sweep must all hold,
// which rejects small circles and partial arcs.
func (g GateConfig) IsRound(pts []vec.Vec2) bool {
	if len(pts) < g.RoundMinPoints {
		return false
	}
	c := Centroid(pts)
	mean, std := RadialSpread(pts, c)

	tight := std/(mean+epsilon) < g.RoundMaxSpread
	big := mean > g.RoundMinRadius
	sweep := math.Abs(Sweep(pts, c)) > g.RoundMinSweep
	return tight && big && sweep
}

// IsJagged reports whether pts zigzag: plenty of turning with repeated
// left/right reversals, the signature of a lightning bolt.
func (g GateConfig) IsJagged(pts []vec.Vec2) bool {
	if len(pts) < g.JaggedMinPoints {
		return false
	}
	return TotalTurn(pts) > g.JaggedMinTurn && DirectionFlips(pts) >= g.JaggedMinFlips
}

// IsStraight reports whether pts form an elongated, barely turning stroke.
func (g GateConfig) IsStraight(pts []vec.Vec2) bool {
	if len(pts) < g.StraightMinPoints {
		return false
	}
	return TotalTurn(pts) < g.StraightMaxTurn && Aspect(pts) > g.StraightMinAspect
}
