package gesture

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Resample returns n points spaced at equal arc length along pts, starting
// at pts[0] and ending at (or padded with) the last point. Interpolated
// points are inserted wherever a segment spans more than one interval.
// A path with no length is returned unchanged.
func Resample(pts []vec.Vec2, n int) []vec.Vec2 {
	if len(pts) == 0 || n < 2 {
		return clonePoints(pts)
	}
	interval := PathLength(pts) / float64(n-1)
	if interval < epsilon {
		return clonePoints(pts)
	}

	out := make([]vec.Vec2, 0, n)
	out = append(out, pts[0])

	prev := pts[0]
	var walked float64
	for i := 1; i < len(pts) && len(out) < n; {
		cur := pts[i]
		d := distance(prev, cur)
		if d > 0 && walked+d >= interval {
			t := (interval - walked) / d
			q := prev.Add(cur.Sub(prev).Mul(t))
			out = append(out, q)
			// q becomes the start of the remaining piece of this segment
			prev = q
			walked = 0
			continue
		}
		walked += d
		prev = cur
		i++
	}

	last := pts[len(pts)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out
}

// IndicativeAngle returns the angle of the vector from the first point to
// the centroid.
func IndicativeAngle(pts []vec.Vec2) float64 {
	if len(pts) == 0 {
		return 0
	}
	c := Centroid(pts)
	return math.Atan2(c.Y-pts[0].Y, c.X-pts[0].X)
}

// RotateBy rotates pts by angle (radians) around their centroid.
func RotateBy(pts []vec.Vec2, angle float64) []vec.Vec2 {
	c := Centroid(pts)
	cos, sin := math.Cos(angle), math.Sin(angle)
	out := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		d := p.Sub(c)
		out[i] = vec.Vec2{
			X: d.X*cos - d.Y*sin + c.X,
			Y: d.X*sin + d.Y*cos + c.Y,
		}
	}
	return out
}

// ScaleToSquare uniformly scales pts so the longer bounding-box side equals
// size, keeping the aspect ratio, with the box's corner moved to the origin.
func ScaleToSquare(pts []vec.Vec2, size float64) []vec.Vec2 {
	b := BoundsOf(pts)
	s := size / math.Max(math.Max(b.Width(), b.Height()), epsilon)
	out := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Sub(b.Min).Mul(s)
	}
	return out
}

// TranslateToOrigin moves pts so their centroid sits at the origin.
func TranslateToOrigin(pts []vec.Vec2) []vec.Vec2 {
	c := Centroid(pts)
	out := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Sub(c)
	}
	return out
}

// Normalize resamples pts to n points, rotates the start-to-centroid
// vector onto the x axis, scales into a size x size box and centers the
// result on the origin. Degenerate input (fewer than two points or no
// length) passes through unchanged.
func Normalize(pts []vec.Vec2, n int, size float64) []vec.Vec2 {
	if len(pts) < 2 || PathLength(pts) < epsilon {
		return clonePoints(pts)
	}
	r := Resample(pts, n)
	r = RotateBy(r, -IndicativeAngle(r))
	r = ScaleToSquare(r, size)
	return TranslateToOrigin(r)
}

// MeanDistance returns the average distance between points at matching
// indices. Sequences of different length never match.
func MeanDistance(a, b []vec.Vec2) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		sum += distance(a[i], b[i])
	}
	return sum / float64(len(a))
}

func clonePoints(pts []vec.Vec2) []vec.Vec2 {
	if pts == nil {
		return nil
	}
	out := make([]vec.Vec2, len(pts))
	copy(out, pts)
	return out
}
