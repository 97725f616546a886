package gesture

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Shape is a recognizable stroke shape.
type Shape int

const (
	// ShapeNone means the stroke was not recognized.
	ShapeNone Shape = iota
	// ShapeCircle is a closed loop.
	ShapeCircle
	// ShapeLightning is a zigzag.
	ShapeLightning
	// ShapeLine is a straight slash.
	ShapeLine
)

// TemplateShapes lists the shapes that have a matching template, in
// evaluation order. Ties keep the earlier shape.
var TemplateShapes = [...]Shape{ShapeCircle, ShapeLightning, ShapeLine}

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeLightning:
		return "lightning"
	case ShapeLine:
		return "line"
	default:
		return "none"
	}
}

// canonicalStroke returns the raw, un-normalized drawing of a template shape.
func canonicalStroke(s Shape) []vec.Vec2 {
	switch s {
	case ShapeCircle:
		pts := make([]vec.Vec2, 0, 48)
		for i := 0; i < 48; i++ {
			t := float64(i) * math.Pi / 24
			pts = append(pts, vec.Vec2{X: 450 + 140*math.Cos(t), Y: 280 + 140*math.Sin(t)})
		}
		return pts
	case ShapeLightning:
		return []vec.Vec2{
			{X: 200, Y: 150},
			{X: 450, Y: 250},
			{X: 380, Y: 320},
			{X: 650, Y: 420},
		}
	case ShapeLine:
		return []vec.Vec2{
			{X: 220, Y: 120},
			{X: 680, Y: 440},
		}
	default:
		return nil
	}
}

// TemplateMatch is the outcome of comparing a stroke against the templates.
type TemplateMatch struct {
	Shape      Shape
	Distance   float64
	Confidence float64
}

// Templates holds the normalized reference strokes. It is built once and
// never modified, so it is safe to share.
type Templates struct {
	points        [len(TemplateShapes)][]vec.Vec2
	resample      int
	size          float64
	maxDistance   float64
	minConfidence float64
}

// NewTemplates normalizes every canonical stroke with the classifier's settings.
func NewTemplates(cfg ClassifierConfig) *Templates {
	t := &Templates{
		resample:      cfg.ResamplePoints,
		size:          cfg.SquareSize,
		maxDistance:   cfg.MaxDistance,
		minConfidence: cfg.MinConfidence,
	}
	for i, s := range TemplateShapes {
		t.points[i] = Normalize(canonicalStroke(s), t.resample, t.size)
	}
	return t
}

// Points returns a copy of the normalized template for s.
func (t *Templates) Points(s Shape) []vec.Vec2 {
	for i, ts := range TemplateShapes {
		if ts == s {
			return clonePoints(t.points[i])
		}
	}
	return nil
}

// Best normalizes pts and returns the closest template regardless of
// confidence. Degenerate strokes come back as ShapeNone with infinite distance.
func (t *Templates) Best(pts []vec.Vec2) TemplateMatch {
	best := TemplateMatch{Shape: ShapeNone, Distance: math.Inf(1)}
	if len(pts) < 2 || PathLength(pts) < epsilon {
		return best
	}
	candidate := Normalize(pts, t.resample, t.size)
	if len(candidate) != t.resample {
		return best
	}

	for i, s := range TemplateShapes {
		d := MeanDistance(candidate, t.points[i])
		if d < best.Distance {
			best = TemplateMatch{Shape: s, Distance: d}
		}
	}
	best.Confidence = math.Max(0, 1-best.Distance/t.maxDistance)
	return best
}

// Match returns the closest template if its confidence clears the bar.
func (t *Templates) Match(pts []vec.Vec2) (TemplateMatch, bool) {
	best := t.Best(pts)
	if best.Shape == ShapeNone || best.Confidence <= t.minConfidence {
		return best, false
	}
	return best, true
}
