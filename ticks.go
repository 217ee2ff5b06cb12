package ggcircle

import (
	"math"
	"strconv"
	"strings"
)

// ticksPerRadius is the number of tick intervals between the center and the
// edge of the circle on either side.
const ticksPerRadius = 2

// Ticks returns the axis tick positions for one axis: from center-radius to
// center+radius inclusive, in steps of radius/2. A non-positive radius
// yields a single tick at the center.
func Ticks(center, radius float64) []float64 {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return []float64{center}
	}
	step := radius / ticksPerRadius
	ticks := make([]float64, 0, 2*ticksPerRadius+1)
	for i := -ticksPerRadius; i <= ticksPerRadius; i++ {
		ticks = append(ticks, center+float64(i)*step)
	}
	return ticks
}

// TickLabel formats a tick value with the meter unit, e.g. "-5.0 m" or "2.5 m".
func TickLabel(v float64) string {
	return FormatNumber(v) + " m"
}

// FormatNumber formats v with the shortest exact representation and at least
// one decimal place, so whole numbers read as "5.0" rather than "5".
func FormatNumber(v float64) string {
	if v == 0 {
		// Avoid "-0.0".
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
