package pdf

import (
	"math"

	"github.com/coregx/gxpdf/creator"
	"github.com/gogpu/gg"
)

// op is one drawing call on a document page.
type op interface {
	draw(pg *creator.Page) error
}

type polygonOp struct {
	vertices []creator.Point
	opts     *creator.PolygonOptions
}

func (o polygonOp) draw(pg *creator.Page) error {
	return pg.DrawPolygon(o.vertices, o.opts)
}

type ellipseOp struct {
	cx, cy, r float64
	opts      *creator.EllipseOptions
}

func (o ellipseOp) draw(pg *creator.Page) error {
	return pg.DrawEllipse(o.cx, o.cy, o.r, o.r, o.opts)
}

type textOp struct {
	text       string
	x, y, size float64
	color      creator.Color
}

func (o textOp) draw(pg *creator.Page) error {
	return pg.AddTextColor(o.text, o.x, o.y, creator.Helvetica, o.size, o.color)
}

// placement maps recording coordinates (Y down, origin top left) onto the
// page (Y up, origin bottom left). The recording is centered horizontally
// below the top margin and scaled down to fit; it is never enlarged.
type placement struct {
	scale float64
	left  float64
	top   float64
}

func place(width, height, margin float64) placement {
	availW := math.Max(PageWidth-2*margin, 1)
	availH := math.Max(PageHeight-2*margin, 1)
	s := math.Min(1, math.Min(availW/width, availH/height))
	return placement{
		scale: s,
		left:  (PageWidth - s*width) / 2,
		top:   PageHeight - margin,
	}
}

func (p placement) point(x, y float64) (float64, float64) {
	return p.left + p.scale*x, p.top - p.scale*y
}

func (p placement) points(pts []gg.Point) []creator.Point {
	out := make([]creator.Point, len(pts))
	for i, pt := range pts {
		out[i].X, out[i].Y = p.point(pt.X, pt.Y)
	}
	return out
}

// circleKappa is the relative control point distance of a quarter circle
// drawn as one cubic.
const circleKappa = 0.5522847498307936

// circleOf reports whether path is a single closed circle made of four
// quarter-circle cubics, as recording.Recorder.DrawCircle records it.
func circleOf(path *gg.Path) (cx, cy, r float64, ok bool) {
	el := path.Elements()
	if len(el) != 6 {
		return 0, 0, 0, false
	}
	m, ok := el[0].(gg.MoveTo)
	if !ok {
		return 0, 0, 0, false
	}
	if _, ok := el[5].(gg.Close); !ok {
		return 0, 0, 0, false
	}
	half, ok := el[2].(gg.CubicTo)
	if !ok {
		return 0, 0, 0, false
	}
	center := m.Point.Add(half.Point).Mul(0.5)
	r = m.Point.Distance(center)
	if r == 0 {
		return 0, 0, 0, false
	}
	eps := 1e-9 * math.Max(r, 1)

	prev := m.Point
	for _, e := range el[1:5] {
		c, ok := e.(gg.CubicTo)
		if !ok {
			return 0, 0, 0, false
		}
		v := prev.Sub(center)
		u := c.Point.Sub(center)
		if u.Distance(perp(v)) > eps ||
			c.Control1.Distance(prev.Add(perp(v).Mul(circleKappa))) > eps ||
			c.Control2.Distance(c.Point.Sub(perp(u).Mul(circleKappa))) > eps {
			return 0, 0, 0, false
		}
		prev = c.Point
	}
	return center.X, center.Y, r, true
}

// perp rotates v by a quarter turn.
func perp(v gg.Point) gg.Point {
	return gg.Point{X: -v.Y, Y: v.X}
}

// retrace returns pts followed by pts reversed without its last point. The
// closed polygon through the result covers exactly the open polyline pts.
func retrace(pts []creator.Point) []creator.Point {
	out := make([]creator.Point, 0, 2*len(pts)-1)
	out = append(out, pts...)
	for i := len(pts) - 2; i >= 0; i-- {
		out = append(out, pts[i])
	}
	return out
}

// dashPolyline splits an open polyline into its dashes. Patterns of odd
// length repeat twice, so dashes and gaps alternate.
func dashPolyline(pts []creator.Point, pattern []float64, offset float64) [][]creator.Point {
	var total float64
	for _, v := range pattern {
		total += math.Max(v, 0)
	}
	if total <= 0 || len(pts) < 2 {
		return [][]creator.Point{pts}
	}
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64(nil), pattern...), pattern...)
		total *= 2
	}

	offset = math.Mod(offset, total)
	if offset < 0 {
		offset += total
	}
	idx := 0
	for offset >= math.Max(pattern[idx], 0) {
		offset -= math.Max(pattern[idx], 0)
		idx = (idx + 1) % len(pattern)
	}
	remain := pattern[idx] - offset
	on := idx%2 == 0

	var (
		dashes [][]creator.Point
		cur    []creator.Point
	)
	if on {
		cur = []creator.Point{pts[0]}
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for length-pos > remain {
			pos += remain
			t := pos / length
			p := creator.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
			if on {
				dashes = append(dashes, append(cur, p))
				cur = nil
			} else {
				cur = []creator.Point{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			remain = math.Max(pattern[idx], 0)
		}
		remain -= length - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) >= 2 {
		dashes = append(dashes, cur)
	}
	return dashes
}
