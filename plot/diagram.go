// Package plot draws the circle diagram.
//
// Diagram records the figure once; any registered recording backend can
// then play it (SVG and PNG for the browser, PDF for the export).
package plot

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

// Default figure settings.
const (
	DefaultWidth        = 640
	DefaultHeight       = 480
	DefaultTitle        = "Circle with points"
	DefaultMarkerRadius = 3.0
)

// Style of the figure elements.
const (
	titleFontSize = 14.0
	tickFontSize  = 10.0
	tickLength    = 4.0
	tickLabelGap  = 3.0
	gridWidth     = 0.8
	outlineWidth  = 1.0
	frameWidth    = 1.0
	originWidth   = 1.0
)

var (
	outlineDash = []float64{4, 2}
	gridColor   = gg.Hex("#B0B0B0")
)

// Option configures Diagram.
type Option func(*config)

type config struct {
	width, height int
	title         string
	markerRadius  float64
}

// WithSize sets the figure size in figure units (pixels for the raster
// backend, points for PDF). Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithTitle replaces the figure title. An empty title omits it.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithMarkerRadius sets the radius of the point markers in figure units.
func WithMarkerRadius(r float64) Option {
	return func(c *config) {
		if r > 0 {
			c.markerRadius = r
		}
	}
}

// Diagram records the circle diagram for spec.
//
// The figure holds a grid at the tick positions, the reference lines
// through the origin (when the origin is in view), the dashed circle
// outline, the axes frame with tick labels in meters, the title, and
// finally the point markers in the chosen color.
func Diagram(spec ggcircle.CircleSpec, opts ...Option) *recording.Recording {
	cfg := config{
		width:        DefaultWidth,
		height:       DefaultHeight,
		title:        DefaultTitle,
		markerRadius: DefaultMarkerRadius,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := NewLayout(spec, cfg.width, cfg.height)
	rec := recording.NewRecorder(cfg.width, cfg.height)
	xticks := ggcircle.Ticks(spec.Center.X, spec.Radius)
	yticks := ggcircle.Ticks(spec.Center.Y, spec.Radius)

	drawGrid(rec, l, xticks, yticks)
	drawOrigin(rec, l)
	drawOutline(rec, l, spec)
	drawFrame(rec, l, xticks, yticks)
	if cfg.title != "" {
		rec.SetFillColor(gg.Black)
		rec.SetFontSize(titleFontSize)
		rec.DrawStringAligned(cfg.title, l.Box.X+l.Box.W/2, l.Box.Y-titleFontSize/2-4, recording.AlignCenter)
	}
	drawMarkers(rec, l, spec, cfg.markerRadius)

	fig := rec.FinishRecording()
	ggcircle.Logger().Debug("plot: diagram recorded",
		"spec", spec.String(), "commands", len(fig.Commands()))
	return fig
}

func drawGrid(rec *recording.Recorder, l Layout, xticks, yticks []float64) {
	rec.Save()
	defer rec.Restore()
	rec.SetStrokeColor(gridColor)
	rec.SetLineWidth(gridWidth)
	for _, v := range xticks {
		if !l.InViewX(v) {
			continue
		}
		x := l.MapX(v)
		rec.DrawLine(x, l.Box.Y, x, l.Box.Y+l.Box.H)
	}
	for _, v := range yticks {
		if !l.InViewY(v) {
			continue
		}
		y := l.MapY(v)
		rec.DrawLine(l.Box.X, y, l.Box.X+l.Box.W, y)
	}
	rec.Stroke()
}

// drawOrigin draws the horizontal and vertical lines through (0, 0),
// not through the circle center.
func drawOrigin(rec *recording.Recorder, l Layout) {
	rec.Save()
	defer rec.Restore()
	rec.SetStrokeColor(gg.Black)
	rec.SetLineWidth(originWidth)
	if l.InViewY(0) {
		y := l.MapY(0)
		rec.DrawLine(l.Box.X, y, l.Box.X+l.Box.W, y)
	}
	if l.InViewX(0) {
		x := l.MapX(0)
		rec.DrawLine(x, l.Box.Y, x, l.Box.Y+l.Box.H)
	}
	rec.Stroke()
}

func drawOutline(rec *recording.Recorder, l Layout, spec ggcircle.CircleSpec) {
	rec.Save()
	defer rec.Restore()
	rec.SetStrokeColor(gg.Black)
	rec.SetLineWidth(outlineWidth)
	rec.SetDash(outlineDash...)
	x, y := l.Map(spec.Center)
	rec.DrawCircle(x, y, spec.Radius*l.Scale())
	rec.Stroke()
}

func drawFrame(rec *recording.Recorder, l Layout, xticks, yticks []float64) {
	rec.Save()
	defer rec.Restore()
	rec.SetStrokeColor(gg.Black)
	rec.SetFillColor(gg.Black)
	rec.SetLineWidth(frameWidth)
	rec.SetFontSize(tickFontSize)

	b := l.Box
	rec.DrawRectangle(b.X, b.Y, b.W, b.H)
	bottom := b.Y + b.H
	for _, v := range xticks {
		if !l.InViewX(v) {
			continue
		}
		x := l.MapX(v)
		rec.DrawLine(x, bottom, x, bottom+tickLength)
		rec.DrawStringAligned(ggcircle.TickLabel(v), x, bottom+tickLength+tickLabelGap+tickFontSize, recording.AlignCenter)
	}
	for _, v := range yticks {
		if !l.InViewY(v) {
			continue
		}
		y := l.MapY(v)
		rec.DrawLine(b.X-tickLength, y, b.X, y)
		rec.DrawStringAligned(ggcircle.TickLabel(v), b.X-tickLength-tickLabelGap, y+tickFontSize/3, recording.AlignRight)
	}
	rec.Stroke()
}

func drawMarkers(rec *recording.Recorder, l Layout, spec ggcircle.CircleSpec, radius float64) {
	rec.Save()
	defer rec.Restore()
	rec.SetFillColor(spec.Color())
	for _, p := range spec.Points() {
		x, y := l.Map(p)
		rec.DrawCircle(x, y, radius)
		rec.Fill()
	}
}
