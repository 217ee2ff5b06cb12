package recording

import "github.com/gogpu/gg"

// DefaultTolerance is the flattening tolerance used by backends that cannot
// draw curves, in user-space units.
const DefaultTolerance = 0.1

// maxDepth bounds curve subdivision to 2^maxDepth segments per curve.
const maxDepth = 10

// Subpath is one flattened subpath: a polyline, closed or open.
type Subpath struct {
	Points []gg.Point
	Closed bool
}

// Flatten converts path into polylines, replacing every quadratic and cubic
// segment with line segments that stay within tolerance of the curve.
// Subpath boundaries and Close elements are preserved. A tolerance <= 0
// selects DefaultTolerance.
func Flatten(path *gg.Path, tolerance float64) []Subpath {
	if path == nil {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	tolSq := tolerance * tolerance

	var (
		subs    []Subpath
		cur     *Subpath
		current gg.Point
	)
	begin := func(p gg.Point) {
		subs = append(subs, Subpath{Points: []gg.Point{p}})
		cur = &subs[len(subs)-1]
	}
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case gg.MoveTo:
			begin(e.Point)
			current = e.Point
		case gg.LineTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			cur.Points = append(cur.Points, e.Point)
			current = e.Point
		case gg.QuadTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			c := gg.NewQuadBez(current, e.Control, e.Point).Raise()
			cur.Points = flattenCubic(cur.Points, c, tolSq, 0)
			current = e.Point
		case gg.CubicTo:
			if cur == nil || cur.Closed {
				begin(current)
			}
			c := gg.NewCubicBez(current, e.Control1, e.Control2, e.Point)
			cur.Points = flattenCubic(cur.Points, c, tolSq, 0)
			current = e.Point
		case gg.Close:
			if cur != nil && !cur.Closed {
				cur.Closed = true
				current = cur.Points[0]
			}
		}
	}
	return subs
}

// flattenCubic appends the end points of the line segments approximating c,
// excluding its start point.
func flattenCubic(dst []gg.Point, c gg.CubicBez, tolSq float64, depth int) []gg.Point {
	if depth >= maxDepth || cubicFlat(c, tolSq) {
		return append(dst, c.P3)
	}
	a, b := c.Subdivide()
	dst = flattenCubic(dst, a, tolSq, depth+1)
	return flattenCubic(dst, b, tolSq, depth+1)
}

// cubicFlat reports whether both control points lie within tolerance of the
// chord from P0 to P3.
func cubicFlat(c gg.CubicBez, tolSq float64) bool {
	return distSqToSegment(c.P1, c.P0, c.P3) <= tolSq &&
		distSqToSegment(c.P2, c.P0, c.P3) <= tolSq
}

func distSqToSegment(p, a, b gg.Point) float64 {
	ab := b.Sub(a)
	l := ab.LengthSquared()
	if l == 0 {
		return p.Sub(a).LengthSquared()
	}
	t := p.Sub(a).Dot(ab) / l
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return p.Sub(a.Add(ab.Mul(t))).LengthSquared()
}
