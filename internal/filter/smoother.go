package filter

import (
	"errors"
	"fmt"
	"time"

	"seehuhn.de/go/geom/vec"
)

// Smoother kinds accepted by Config.Kind.
const (
	KindOneEuro = "oneeuro"
	KindKalman  = "kalman"
)

// ErrUnknownKind is returned by New for an unrecognized Config.Kind.
var ErrUnknownKind = errors.New("unknown smoother kind")

// Config holds the tuning for fingertip smoothing.
type Config struct {
	// Kind selects the point smoother: KindOneEuro or KindKalman.
	Kind string

	// MinCutoff is the base cutoff frequency (Hz) of the value filter.
	MinCutoff float64
	// Beta scales how much the filtered speed raises the cutoff.
	Beta float64
	// DerivativeCutoff is the fixed cutoff (Hz) of the derivative filter.
	DerivativeCutoff float64

	// FrameInterval is the nominal time step assumed by the Kalman model.
	FrameInterval time.Duration
	// ProcessNoise is the acceleration standard deviation of the Kalman model.
	ProcessNoise float64
	// MeasurementNoise is the per-axis measurement standard deviation (pixels).
	MeasurementNoise float64
}

// DefaultConfig returns the one-euro tuning used for 30-60 fps webcam input.
func DefaultConfig() Config {
	return Config{
		Kind:             KindOneEuro,
		MinCutoff:        1.2,
		Beta:             0.007,
		DerivativeCutoff: 1.5,
		FrameInterval:    33 * time.Millisecond,
		ProcessNoise:     2.0,
		MeasurementNoise: 0.1,
	}
}

// PointSmoother smooths a stream of 2D fingertip positions.
type PointSmoother interface {
	// Filter returns the smoothed position of p captured at t.
	Filter(p vec.Vec2, t time.Time) (vec.Vec2, error)
	// Reset forgets all history, e.g. when the hand is reacquired.
	Reset()
}

// New returns the point smoother selected by cfg.Kind.
func New(cfg Config) (PointSmoother, error) {
	switch cfg.Kind {
	case "", KindOneEuro:
		return NewOneEuroPoint(cfg), nil
	case KindKalman:
		return NewKalmanPoint(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// OneEuroPoint runs two independent one-euro filters, one per screen axis.
type OneEuroPoint struct {
	x *OneEuro
	y *OneEuro
}

// NewOneEuroPoint creates a point smoother from two scalar one-euro filters.
func NewOneEuroPoint(cfg Config) *OneEuroPoint {
	return &OneEuroPoint{
		x: NewOneEuro(cfg),
		y: NewOneEuro(cfg),
	}
}

// Filter smooths each coordinate independently. It never fails.
func (p *OneEuroPoint) Filter(pt vec.Vec2, t time.Time) (vec.Vec2, error) {
	return vec.Vec2{
		X: p.x.Filter(pt.X, t),
		Y: p.y.Filter(pt.Y, t),
	}, nil
}

// Reset resets both axis filters.
func (p *OneEuroPoint) Reset() {
	p.x.Reset()
	p.y.Reset()
}
