// Package gesture turns a hand pose and a recorded fingertip stroke into a
// recognized shape.
package gesture

import (
	"fmt"

	"seehuhn.de/go/geom/vec"
)

// Tier identifies which stage of the classifier produced a result.
type Tier int

const (
	// TierNone means nothing was recognized.
	TierNone Tier = iota
	// TierGate means a closed-form geometric gate matched.
	TierGate
	// TierTemplate means the normalized template fallback matched.
	TierTemplate
	// TierTieBreak means only the relaxed tie-break gates matched.
	TierTieBreak
)

func (t Tier) String() string {
	switch t {
	case TierGate:
		return "gate"
	case TierTemplate:
		return "template"
	case TierTieBreak:
		return "tiebreak"
	default:
		return "none"
	}
}

// Policy holds the tunable decision rules of the pipeline.
type Policy struct {
	// TriggerFrames is how many consecutive fist frames end a stroke.
	// One means a single qualifying frame casts immediately.
	TriggerFrames int
	// PreferStraight resolves an ambiguous stroke as a line rather than
	// lightning when both relaxed gates hold.
	PreferStraight bool
}

// DefaultPolicy returns the responsive single-frame trigger with the
// line-over-lightning tie-break.
func DefaultPolicy() Policy {
	return Policy{
		TriggerFrames:  1,
		PreferStraight: true,
	}
}

// ClassifierConfig configures the two-tier shape classifier.
type ClassifierConfig struct {
	MinStrokePoints   int     // Shorter strokes are discarded
	TemplateMinPoints int     // Fewest points the template tier will look at
	ResamplePoints    int     // Points per normalized stroke
	SquareSize        float64 // Side of the normalization box
	MaxDistance       float64 // Mean distance at which confidence reaches zero
	MinConfidence     float64 // Template matches must score above this

	Gates     GateConfig
	WeakGates GateConfig
	Policy    Policy
}

// DefaultClassifierConfig returns the shipped classifier settings.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinStrokePoints:   10,
		TemplateMinPoints: 12,
		ResamplePoints:    64,
		SquareSize:        250,
		MaxDistance:       85,
		MinConfidence:     0.25,
		Gates:             DefaultGateConfig(),
		WeakGates:         WeakGateConfig(),
		Policy:            DefaultPolicy(),
	}
}

// Validate reports the first setting that would make classification meaningless.
func (c ClassifierConfig) Validate() error {
	switch {
	case c.MinStrokePoints < 1:
		return fmt.Errorf("min stroke points must be positive, got %d", c.MinStrokePoints)
	case c.ResamplePoints < 2:
		return fmt.Errorf("resample points must be at least 2, got %d", c.ResamplePoints)
	case c.SquareSize <= 0:
		return fmt.Errorf("square size must be positive, got %f", c.SquareSize)
	case c.MaxDistance <= 0:
		return fmt.Errorf("max distance must be positive, got %f", c.MaxDistance)
	case c.MinConfidence < 0 || c.MinConfidence >= 1:
		return fmt.Errorf("min confidence must be in [0, 1), got %f", c.MinConfidence)
	case c.Policy.TriggerFrames < 1:
		return fmt.Errorf("trigger frames must be positive, got %d", c.Policy.TriggerFrames)
	}
	return nil
}

// Result is a recognized stroke.
type Result struct {
	Shape      Shape
	Tier       Tier
	Confidence float64 // 1 for gate matches
	Downgraded bool    // a lightning template match failed the jagged check
}

// Classifier recognizes completed strokes. It holds only immutable state
// once built.
type Classifier struct {
	cfg       ClassifierConfig
	templates *Templates
}

// NewClassifier builds the templates for cfg.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{
		cfg:       cfg,
		templates: NewTemplates(cfg),
	}
}

// Config returns the classifier's settings.
func (c *Classifier) Config() ClassifierConfig {
	return c.cfg
}

// Templates returns the normalized reference strokes.
func (c *Classifier) Templates() *Templates {
	return c.templates
}

// Classify recognizes pts. The second return value is false when the
// stroke is too short or nothing clears its bar, including the relaxed
// tie-break.
func (c *Classifier) Classify(pts []vec.Vec2) (Result, bool) {
	if len(pts) < c.cfg.MinStrokePoints {
		return Result{}, false
	}

	// Tier 1: first gate to match wins
	switch {
	case c.cfg.Gates.IsRound(pts):
		return Result{Shape: ShapeCircle, Tier: TierGate, Confidence: 1}, true
	case c.cfg.Gates.IsJagged(pts):
		return Result{Shape: ShapeLightning, Tier: TierGate, Confidence: 1}, true
	case c.cfg.Gates.IsStraight(pts):
		return Result{Shape: ShapeLine, Tier: TierGate, Confidence: 1}, true
	}

	// Tier 2: template fallback, skipped for short strokes
	if len(pts) < c.cfg.TemplateMinPoints {
		return c.tieBreak(pts)
	}
	if m, ok := c.templates.Match(pts); ok {
		r := Result{Shape: m.Shape, Tier: TierTemplate, Confidence: m.Confidence}
		// Only lightning matches are cross-checked.
		if r.Shape == ShapeLightning && !c.cfg.Gates.IsJagged(pts) {
			r.Shape = ShapeLine
			r.Downgraded = true
		}
		return r, true
	}

	return c.tieBreak(pts)
}

// tieBreak re-runs the jagged and straight tests with relaxed thresholds.
func (c *Classifier) tieBreak(pts []vec.Vec2) (Result, bool) {
	jagged := c.cfg.WeakGates.IsJagged(pts)
	straight := c.cfg.WeakGates.IsStraight(pts)

	var shape Shape
	switch {
	case jagged && straight:
		shape = ShapeLightning
		if c.cfg.Policy.PreferStraight {
			shape = ShapeLine
		}
	case straight:
		shape = ShapeLine
	case jagged:
		shape = ShapeLightning
	default:
		return Result{}, false
	}
	return Result{Shape: shape, Tier: TierTieBreak}, true
}
