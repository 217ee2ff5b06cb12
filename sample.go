package ggcircle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SamplePoints returns n points evenly spaced around the circle with the
// given center and radius.
//
// Point i lies at angle i·2π/n, so the first point is at angle 0 (to the
// right of the center) and the angles increase counter-clockwise. A radius
// of 0 collapses every point onto the center. n <= 0 yields no points.
//
// SamplePoints is pure and performs no validation.
func SamplePoints(center r2.Vec, radius float64, n int) []r2.Vec {
	if n <= 0 {
		return nil
	}
	step := AngleStep(n)
	points := make([]r2.Vec, n)
	for i := range points {
		angle := float64(i) * step
		points[i] = r2.Add(center, r2.Vec{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		})
	}
	return points
}

// AngleStep returns the angle between neighbouring points, 2π/n.
func AngleStep(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 2 * math.Pi / float64(n)
}
