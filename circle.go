package ggcircle

import (
	"fmt"
	"image/color"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/spatial/r2"
)

// Form bounds. The form widgets enforce these; the core never checks them.
const (
	MinRadius     = 1.0
	MinPointCount = 3
	MaxPointCount = 100
)

// Form defaults.
const (
	DefaultRadius     = 5.0
	DefaultPointCount = 12
	DefaultPointColor = "#FF0000"
)

// CircleSpec describes one circle-with-points diagram.
// It is a plain value: build a new one for every change.
type CircleSpec struct {
	// Center of the circle in data units.
	Center r2.Vec

	// Radius in data units (meters on the axis labels).
	Radius float64

	// PointCount is the number of evenly spaced points on the circumference.
	PointCount int

	// PointColor is the marker color exactly as the user chose it,
	// usually a hex code such as "#FF0000".
	PointColor string
}

// DefaultCircleSpec returns the spec the form starts with:
// center (0, 0), radius 5, 12 points, red markers.
func DefaultCircleSpec() CircleSpec {
	return CircleSpec{
		Radius:     DefaultRadius,
		PointCount: DefaultPointCount,
		PointColor: DefaultPointColor,
	}
}

// Points returns the sampled points of the spec.
func (s CircleSpec) Points() []r2.Vec {
	return SamplePoints(s.Center, s.Radius, s.PointCount)
}

// Color parses PointColor. Unparsable values yield opaque black.
func (s CircleSpec) Color() gg.RGBA {
	return gg.Hex(s.PointColor)
}

// NRGBA returns the marker color as a standard library color.
func (s CircleSpec) NRGBA() color.NRGBA {
	c := s.Color()
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// Clamp returns a copy of s with radius and point count pulled into the
// bounds the form widgets allow.
func (s CircleSpec) Clamp() CircleSpec {
	if s.Radius < MinRadius {
		s.Radius = MinRadius
	}
	s.PointCount = min(max(s.PointCount, MinPointCount), MaxPointCount)
	if s.PointColor == "" {
		s.PointColor = DefaultPointColor
	}
	return s
}

// String implements fmt.Stringer.
func (s CircleSpec) String() string {
	return fmt.Sprintf("circle center=(%s, %s) r=%s n=%d color=%s",
		FormatNumber(s.Center.X), FormatNumber(s.Center.Y), FormatNumber(s.Radius),
		s.PointCount, s.PointColor)
}
