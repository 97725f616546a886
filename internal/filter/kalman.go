package filter

import (
	"time"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
	"seehuhn.de/go/geom/vec"
)

// KalmanPoint smooths the fingertip with a constant-velocity 2D Kalman
// filter.
type KalmanPoint struct {
	dt               float64
	processNoise     float64
	measurementNoise float64
	tracker          *kalman_filter.Kalman2D
}

// NewKalmanPoint creates a Kalman point smoother. The tracker itself is
// created on the first sample so it can be seeded with that position.
func NewKalmanPoint(cfg Config) *KalmanPoint {
	dt := cfg.FrameInterval.Seconds()
	if dt <= 0 {
		dt = minSampleInterval.Seconds()
	}
	return &KalmanPoint{
		dt:               dt,
		processNoise:     cfg.ProcessNoise,
		measurementNoise: cfg.MeasurementNoise,
	}
}

// Filter predicts the next state and corrects it with p. The first sample
// after a reset is returned unchanged.
func (k *KalmanPoint) Filter(p vec.Vec2, t time.Time) (vec.Vec2, error) {
	if k.tracker == nil {
		/* no control input: the hand is free to accelerate in any direction */
		ux := 0.0
		uy := 0.0
		k.tracker = kalman_filter.NewKalman2D(k.dt, ux, uy, k.processNoise, k.measurementNoise, k.measurementNoise, kalman_filter.WithState2D(p.X, p.Y))
		return p, nil
	}

	k.tracker.Predict()
	if err := k.tracker.Update(p.X, p.Y); err != nil {
		return p, errors.Wrap(err, "Can't update fingertip tracker")
	}
	x, y := k.tracker.GetState()
	return vec.Vec2{X: x, Y: y}, nil
}

// Reset drops the tracker; the next sample seeds a fresh one.
func (k *KalmanPoint) Reset() {
	k.tracker = nil
}
