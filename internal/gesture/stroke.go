package gesture

import (
	"seehuhn.de/go/geom/vec"
)

// RecorderConfig tunes adaptive stroke sampling.
type RecorderConfig struct {
	SpeedAlpha   float64 // weight of the newest distance in the speed average
	BaseStep     float64 // minimum spacing in pixels at rest
	StepPerSpeed float64 // extra spacing per pixel of averaged speed
	OutlierJump  float64 // jumps longer than this are suspect
	OutlierSpeed float64 // suspect jumps are dropped only above this speed
	MaxPoints    int     // oldest points are evicted beyond this

	LostFrameTolerance int // missed detections held before trimming
	MinKeptOnLoss      int // trimming never shrinks the stroke below this
}

// DefaultRecorderConfig returns the shipped sampling parameters.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		SpeedAlpha:         0.3,
		BaseStep:           2.0,
		StepPerSpeed:       0.08,
		OutlierJump:        80,
		OutlierSpeed:       30,
		MaxPoints:          256,
		LostFrameTolerance: 8,
		MinKeptOnLoss:      6,
	}
}

// Recorder accumulates a stroke, sampling densely at low speed and sparsely
// at high speed. It is not safe for concurrent use.
type Recorder struct {
	cfg    RecorderConfig
	points []vec.Vec2
	speed  float64
}

// NewRecorder creates an empty recorder.
func NewRecorder(cfg RecorderConfig) *Recorder {
	return &Recorder{
		cfg:    cfg,
		points: make([]vec.Vec2, 0, cfg.MaxPoints),
	}
}

// Add offers a point to the stroke and reports whether it was recorded.
func (r *Recorder) Add(p vec.Vec2) bool {
	if len(r.points) == 0 {
		r.points = append(r.points, p)
		return true
	}

	d := distance(r.points[len(r.points)-1], p)
	r.speed = r.cfg.SpeedAlpha*d + (1-r.cfg.SpeedAlpha)*r.speed

	// a long jump during already fast motion is a tracking glitch
	if d > r.cfg.OutlierJump && r.speed > r.cfg.OutlierSpeed {
		return false
	}
	if d < r.cfg.BaseStep+r.cfg.StepPerSpeed*r.speed {
		return false
	}

	r.points = append(r.points, p)
	if over := len(r.points) - r.cfg.MaxPoints; over > 0 {
		r.points = append(r.points[:0], r.points[over:]...)
	}
	return true
}

// Trim drops the oldest point while more than MinKeptOnLoss remain. It
// reports whether a point was removed.
func (r *Recorder) Trim() bool {
	if len(r.points) <= r.cfg.MinKeptOnLoss {
		return false
	}
	r.points = append(r.points[:0], r.points[1:]...)
	return true
}

// Reset clears the stroke and the speed estimate.
func (r *Recorder) Reset() {
	r.points = r.points[:0]
	r.speed = 0
}

// Len returns the number of recorded points.
func (r *Recorder) Len() int {
	return len(r.points)
}

// Speed returns the current averaged step length in pixels.
func (r *Recorder) Speed() float64 {
	return r.speed
}

// Last returns the most recent point, if any.
func (r *Recorder) Last() (vec.Vec2, bool) {
	if len(r.points) == 0 {
		return vec.Vec2{}, false
	}
	return r.points[len(r.points)-1], true
}

// Points returns a copy of the stroke.
func (r *Recorder) Points() []vec.Vec2 {
	out := make([]vec.Vec2, len(r.points))
	copy(out, r.points)
	return out
}
