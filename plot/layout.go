package plot

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/ggcircle"
)

// Margins around the plot box, in figure units.
const (
	marginLeft   = 72.0
	marginRight  = 24.0
	marginTop    = 40.0
	marginBottom = 36.0
)

// viewPadding is added to the radius on each side of the center when
// computing the view limits.
const viewPadding = 1.0

// Rect is an axis-aligned rectangle in figure units.
type Rect struct {
	X, Y, W, H float64
}

// Layout maps data coordinates onto the figure.
//
// The plot box is square and both axes cover the same data span, so one
// data unit has the same length horizontally and vertically.
type Layout struct {
	Width, Height float64

	// Box is the plot area inside the axes frame.
	Box Rect

	// View limits in data units.
	XMin, XMax float64
	YMin, YMax float64
}

// NewLayout computes the layout of a figure of the given size for spec.
// The view spans center ± (radius + 1) on both axes.
func NewLayout(spec ggcircle.CircleSpec, width, height int) Layout {
	w, h := float64(width), float64(height)
	half := math.Abs(spec.Radius) + viewPadding
	if math.IsNaN(half) || math.IsInf(half, 0) {
		half = viewPadding
	}

	availW := math.Max(w-marginLeft-marginRight, 1)
	availH := math.Max(h-marginTop-marginBottom, 1)
	side := math.Min(availW, availH)

	return Layout{
		Width:  w,
		Height: h,
		Box: Rect{
			X: marginLeft + (availW-side)/2,
			Y: marginTop + (availH-side)/2,
			W: side,
			H: side,
		},
		XMin: spec.Center.X - half,
		XMax: spec.Center.X + half,
		YMin: spec.Center.Y - half,
		YMax: spec.Center.Y + half,
	}
}

// Scale returns the length of one data unit in figure units.
func (l Layout) Scale() float64 {
	return l.Box.W / (l.XMax - l.XMin)
}

// MapX maps a data x coordinate to a figure x coordinate.
func (l Layout) MapX(x float64) float64 {
	return l.Box.X + (x-l.XMin)*l.Scale()
}

// MapY maps a data y coordinate to a figure y coordinate. The data y axis
// points up, the figure y axis points down.
func (l Layout) MapY(y float64) float64 {
	return l.Box.Y + l.Box.H - (y-l.YMin)*l.Scale()
}

// Map maps a data point to figure coordinates.
func (l Layout) Map(v r2.Vec) (x, y float64) {
	return l.MapX(v.X), l.MapY(v.Y)
}

// InViewX reports whether the data x coordinate lies within the view.
func (l Layout) InViewX(x float64) bool {
	return x >= l.XMin && x <= l.XMax
}

// InViewY reports whether the data y coordinate lies within the view.
func (l Layout) InViewY(y float64) bool {
	return y >= l.YMin && y <= l.YMax
}
