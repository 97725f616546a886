// Package filter provides adaptive low-pass smoothing for tracked fingertip coordinates.
package filter

import (
	"math"
	"time"
)

// minSampleInterval floors the time between samples so the derivative
// estimate never divides by (near) zero.
const minSampleInterval = time.Millisecond

// lowPass is a first-order exponential smoother.
type lowPass struct {
	alpha float64
	y     float64
	seen  bool
}

// filter blends x into the running value; the first sample passes through.
func (lp *lowPass) filter(x float64) float64 {
	if !lp.seen {
		lp.y = x
		lp.seen = true
		return x
	}
	lp.y = lp.alpha*x + (1-lp.alpha)*lp.y
	return lp.y
}

// smoothingFactor converts a cutoff frequency (Hz) and sample interval
// (seconds) into the exponential blend weight.
func smoothingFactor(dt, cutoff float64) float64 {
	tau := 1 / (2 * math.Pi * cutoff)
	return 1 / (1 + tau/dt)
}

// OneEuro is a one-euro filter for a single scalar coordinate.
//
// Two cascaded exponential filters run per sample: one over the finite
// difference derivative and one over the value. The value filter's cutoff
// grows with the filtered derivative magnitude, so fast motion is smoothed
// less and slow motion more.
type OneEuro struct {
	minCutoff float64
	beta      float64
	dCutoff   float64

	value      lowPass
	derivative lowPass

	lastTime time.Time
	lastRaw  float64
	seen     bool
	cutoff   float64
}

// NewOneEuro creates a scalar one-euro filter from the given configuration.
func NewOneEuro(cfg Config) *OneEuro {
	f := &OneEuro{
		minCutoff: cfg.MinCutoff,
		beta:      cfg.Beta,
		dCutoff:   cfg.DerivativeCutoff,
	}
	f.Reset()
	return f
}

// Filter returns the smoothed value of x captured at t.
func (f *OneEuro) Filter(x float64, t time.Time) float64 {
	if !f.seen {
		f.seen = true
		f.lastTime = t
		f.lastRaw = x
		f.value.filter(x)
		return x
	}

	elapsed := t.Sub(f.lastTime)
	if elapsed < minSampleInterval {
		elapsed = minSampleInterval
	}
	dt := elapsed.Seconds()
	f.lastTime = t

	dx := (x - f.lastRaw) / dt
	f.lastRaw = x

	f.derivative.alpha = smoothingFactor(dt, f.dCutoff)
	edx := f.derivative.filter(dx)

	f.cutoff = f.minCutoff + f.beta*math.Abs(edx)
	f.value.alpha = smoothingFactor(dt, f.cutoff)
	return f.value.filter(x)
}

// Cutoff returns the adaptive cutoff frequency used for the last sample.
func (f *OneEuro) Cutoff() float64 {
	return f.cutoff
}

// Reset marks the filter unseen; the next sample initializes it unsmoothed.
func (f *OneEuro) Reset() {
	f.value = lowPass{}
	f.derivative = lowPass{}
	f.seen = false
	f.lastRaw = 0
	f.lastTime = time.Time{}
	f.cutoff = f.minCutoff
}
