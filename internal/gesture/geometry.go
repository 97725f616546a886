package gesture

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"seehuhn.de/go/geom/vec"
)

// epsilon floors every geometric division so degenerate strokes resolve to
// a defined result instead of NaN or Inf.
const epsilon = 1e-6

// distance returns the Euclidean distance between two points.
func distance(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}

// cross returns the z component of the 2D cross product a x b.
func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// PathLength returns the summed length of the polyline through pts.
func PathLength(pts []vec.Vec2) float64 {
	if len(pts) < 2 {
		return 0
	}
	segments := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		segments[i-1] = distance(pts[i-1], pts[i])
	}
	return floats.Sum(segments)
}

// Centroid returns the mean position of pts, or the zero vector for an empty slice.
func Centroid(pts []vec.Vec2) vec.Vec2 {
	if len(pts) == 0 {
		return vec.Vec2{}
	}
	var sum vec.Vec2
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min vec.Vec2
	Max vec.Vec2
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// BoundsOf returns the bounding box of pts.
func BoundsOf(pts []vec.Vec2) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Aspect returns the bounding-box elongation: longer side over shorter
// side, each floored at one pixel. The result is always >= 1.
func Aspect(pts []vec.Vec2) float64 {
	b := BoundsOf(pts)
	w := math.Max(1, b.Width())
	h := math.Max(1, b.Height())
	return math.Max(w, h) / math.Min(w, h)
}

// TotalTurn returns the summed unsigned angle (radians) between
// consecutive motion vectors.
func TotalTurn(pts []vec.Vec2) float64 {
	var sum float64
	for i := 2; i < len(pts); i++ {
		a := pts[i-1].Sub(pts[i-2])
		b := pts[i].Sub(pts[i-1])
		sum += math.Abs(math.Atan2(cross(a, b), a.Dot(b)))
	}
	return sum
}

// DirectionFlips counts sign changes of the cross product between
// consecutive motion vectors, i.e. how often the stroke switches between
// turning left and turning right. Collinear steps (sine of the turn below
// epsilon) do not reset the count.
func DirectionFlips(pts []vec.Vec2) int {
	var prev float64
	changes := 0
	for i := 2; i < len(pts); i++ {
		a := pts[i-1].Sub(pts[i-2])
		b := pts[i].Sub(pts[i-1])
		c := cross(a, b)
		if math.Abs(c) <= epsilon*a.Length()*b.Length() {
			c = 0
		}
		s := sign(c)
		if prev != 0 && s != 0 && s != prev {
			changes++
		}
		if s != 0 {
			prev = s
		}
	}
	return changes
}

// Sweep returns the signed angle (radians) swept around c while walking
// pts, wrapping each step into [-pi, pi].
func Sweep(pts []vec.Vec2, c vec.Vec2) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		a0 := math.Atan2(pts[i-1].Y-c.Y, pts[i-1].X-c.X)
		a1 := math.Atan2(pts[i].Y-c.Y, pts[i].X-c.X)
		d := a1 - a0
		if d > math.Pi {
			d -= 2 * math.Pi
		}
		if d < -math.Pi {
			d += 2 * math.Pi
		}
		total += d
	}
	return total
}

// RadialSpread returns the mean distance of pts from c and the population
// standard deviation of those distances.
func RadialSpread(pts []vec.Vec2, c vec.Vec2) (mean, std float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	radii := make([]float64, len(pts))
	for i, p := range pts {
		radii[i] = distance(c, p)
	}
	mean, variance := stat.PopMeanVariance(radii, nil)
	return mean, math.Sqrt(variance)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
