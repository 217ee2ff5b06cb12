// Package report writes the downloadable circle document: a PDF whose first
// page is the diagram and whose second page lists the parameters.
package report

import (
	"strconv"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

// Summary page geometry: 6x4 inches at 72 points per inch.
const (
	SummaryWidth    = 432
	SummaryHeight   = 288
	SummaryFontSize = 12.0
)

// summaryRows are the vertical positions of the text lines as fractions of
// the page height, measured from the bottom, top line first.
var summaryRows = [...]float64{0.8, 0.6, 0.4, 0.2}

// summaryLeft is the left edge of the text as a fraction of the page width.
const summaryLeft = 0.1

// SummaryLines returns the four parameter lines of the summary page.
func SummaryLines(spec ggcircle.CircleSpec) []string {
	return []string{
		"Center: (" + formatValue(spec.Center.X) + ", " + formatValue(spec.Center.Y) + ")",
		"Radius: " + formatValue(spec.Radius) + " m",
		"Point count: " + strconv.Itoa(spec.PointCount),
		"Point color: " + spec.PointColor,
	}
}

// Summary records the text-only parameter page.
func Summary(spec ggcircle.CircleSpec) *recording.Recording {
	rec := recording.NewRecorder(SummaryWidth, SummaryHeight)
	rec.SetFillColor(gg.Black)
	rec.SetFontSize(SummaryFontSize)
	for i, line := range SummaryLines(spec) {
		y := SummaryHeight * (1 - summaryRows[i])
		rec.DrawString(line, SummaryWidth*summaryLeft, y)
	}
	return rec.FinishRecording()
}

// formatValue prints a user value the way it was entered: 5 stays "5",
// 2.5 stays "2.5".
func formatValue(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
