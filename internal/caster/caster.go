// Package caster runs the per-frame spell recognition pipeline: fingertip
// smoothing, pose reading, stroke recording, shape classification and the
// cast cooldown.
package caster

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/filter"
	"github.com/ayusman/spellcast/internal/gesture"
	"github.com/ayusman/spellcast/internal/spell"
)

// Mode is the drawing state of the pipeline.
type Mode int

const (
	// ModeIdle waits for a pointing hand.
	ModeIdle Mode = iota
	// ModeDrawing records the fingertip until a fist ends the stroke.
	ModeDrawing
)

func (m Mode) String() string {
	if m == ModeDrawing {
		return "drawing"
	}
	return "idle"
}

// Input is one processed video frame.
type Input struct {
	At     time.Time
	Hand   *detector.HandLandmarks // nil when no hand was detected
	Width  float64                 // viewport size in pixels
	Height float64
}

// Caster owns all pipeline state. It is driven from a single goroutine,
// one Tick per frame, and does no locking.
type Caster struct {
	cfg         Config
	smoother    filter.PointSmoother
	recorder    *gesture.Recorder
	classifier  *gesture.Classifier
	cooldown    *Cooldown
	subscribers []func(Event)

	mode       Mode
	lostFrames int
	fistFrames int
}

// New validates cfg and builds a caster in idle mode.
func New(cfg Config) (*Caster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	smoother, err := filter.New(cfg.Smoother)
	if err != nil {
		return nil, err
	}

	return &Caster{
		cfg:        cfg,
		smoother:   smoother,
		recorder:   gesture.NewRecorder(cfg.Recorder),
		classifier: gesture.NewClassifier(cfg.Classifier),
		cooldown:   NewCooldown(cfg.Cooldown),
	}, nil
}

// Config returns the settings the caster was built with.
func (c *Caster) Config() Config {
	return c.cfg
}

// Subscribe registers fn to receive every event, on the Tick goroutine.
func (c *Caster) Subscribe(fn func(Event)) {
	if fn != nil {
		c.subscribers = append(c.subscribers, fn)
	}
}

// Mode returns the current drawing state.
func (c *Caster) Mode() Mode {
	return c.mode
}

// Stroke returns a copy of the stroke being drawn, for trail rendering.
func (c *Caster) Stroke() []vec.Vec2 {
	return c.recorder.Points()
}

// CooldownRemaining returns how long casts stay blocked after now.
func (c *Caster) CooldownRemaining(now time.Time) time.Duration {
	return c.cooldown.Remaining(now)
}

// Reset returns the caster to its initial idle state. Subscribers are kept.
func (c *Caster) Reset() {
	c.smoother.Reset()
	c.recorder.Reset()
	c.cooldown.Reset()
	c.mode = ModeIdle
	c.lostFrames = 0
	c.fistFrames = 0
}

// Tick advances the pipeline by one frame and returns the events it
// emitted. An error means the input broke its contract; the frame is
// dropped and state is left as it was.
func (c *Caster) Tick(in Input) ([]Event, error) {
	if !(in.Width > 0) || !(in.Height > 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, in.Width, in.Height)
	}

	if in.Hand == nil {
		c.missed()
		return nil, nil
	}
	if err := in.Hand.Validate(); err != nil {
		return nil, err
	}

	// A hand seen again after a long gap starts a fresh track.
	if c.lostFrames > c.cfg.Recorder.LostFrameTolerance {
		c.smoother.Reset()
	}
	c.lostFrames = 0

	x, y := in.Hand.Fingertip(in.Width, in.Height)
	p, err := c.smoother.Filter(vec.Vec2{X: x, Y: y}, in.At)
	if err != nil {
		return nil, fmt.Errorf("smooth fingertip: %w", err)
	}
	p = clamp(p, in.Width, in.Height)

	var events []Event
	switch gesture.ClassifyPose(in.Hand, c.cfg.Pose, c.mode == ModeDrawing) {
	case gesture.PosePointing:
		c.fistFrames = 0
		if c.mode != ModeDrawing {
			c.mode = ModeDrawing
			c.recorder.Reset()
			events = append(events, DrawingEvent{Drawing: true, At: in.At})
		}
		c.recorder.Add(p)

	case gesture.PoseFist:
		if c.mode != ModeDrawing {
			break
		}
		c.fistFrames++
		if c.fistFrames < c.cfg.Classifier.Policy.TriggerFrames {
			break
		}
		c.fistFrames = 0
		c.mode = ModeIdle
		events = append(events, DrawingEvent{Drawing: false, At: in.At})
		if cast, ok := c.complete(in.At); ok {
			events = append(events, cast)
		}

	default:
		c.fistFrames = 0
	}

	c.emit(events)
	return events, nil
}

// missed handles a frame without a hand: state is held for a while, then
// the stroke is trimmed one point per frame.
func (c *Caster) missed() {
	c.lostFrames++
	if c.lostFrames > c.cfg.Recorder.LostFrameTolerance {
		c.recorder.Trim()
	}
}

// complete consumes the finished stroke. The stroke is always cleared;
// too-short strokes do not start the cooldown.
func (c *Caster) complete(at time.Time) (CastEvent, bool) {
	pts := c.recorder.Points()
	c.recorder.Reset()

	if len(pts) < c.cfg.Classifier.MinStrokePoints {
		return CastEvent{}, false
	}
	if !c.cooldown.Ready(at) {
		return CastEvent{}, false
	}
	c.cooldown.Start(at)

	res, ok := c.classifier.Classify(pts)
	if !ok {
		return CastEvent{}, false
	}
	s, ok := spell.ForShape(res.Shape)
	if !ok {
		return CastEvent{}, false
	}

	return CastEvent{
		ID:         uuid.New(),
		Spell:      s,
		Shape:      res.Shape,
		Tier:       res.Tier,
		Confidence: res.Confidence,
		Target:     c.target(s, pts),
		At:         at,
	}, true
}

// target picks the spawn point of a spell.
func (c *Caster) target(s spell.Spell, pts []vec.Vec2) vec.Vec2 {
	if s == spell.Fireball || len(pts) == 0 {
		return c.cfg.FireballOrigin
	}
	return pts[len(pts)-1]
}

func (c *Caster) emit(events []Event) {
	for _, e := range events {
		for _, fn := range c.subscribers {
			fn(e)
		}
	}
}

func clamp(p vec.Vec2, width, height float64) vec.Vec2 {
	return vec.Vec2{
		X: math.Max(0, math.Min(width, p.X)),
		Y: math.Max(0, math.Min(height, p.Y)),
	}
}
