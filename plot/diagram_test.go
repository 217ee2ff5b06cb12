package plot

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

type fillCall struct {
	path  *gg.Path
	color gg.RGBA
}

type strokeCall struct {
	path   *gg.Path
	color  gg.RGBA
	stroke recording.Stroke
}

type textCall struct {
	text  string
	x, y  float64
	size  float64
	align recording.Align
}

// captureBackend records everything played into it.
type captureBackend struct {
	width, height int
	fills         []fillCall
	strokes       []strokeCall
	texts         []textCall
	order         []string
}

func (b *captureBackend) Begin(w, h int) error { b.width, b.height = w, h; return nil }
func (b *captureBackend) End() error           { return nil }
func (b *captureBackend) Save()                {}
func (b *captureBackend) Restore()             {}

func (b *captureBackend) FillPath(p *gg.Path, br recording.Brush) {
	b.fills = append(b.fills, fillCall{p, recording.ColorOf(br)})
	b.order = append(b.order, "fill")
}

func (b *captureBackend) StrokePath(p *gg.Path, br recording.Brush, s recording.Stroke) {
	b.strokes = append(b.strokes, strokeCall{p, recording.ColorOf(br), s})
	b.order = append(b.order, "stroke")
}

func (b *captureBackend) DrawText(s string, x, y, size float64, a recording.Align, br recording.Brush) {
	b.texts = append(b.texts, textCall{s, x, y, size, a})
	b.order = append(b.order, "text")
}

func capture(t *testing.T, spec ggcircle.CircleSpec, opts ...Option) *captureBackend {
	t.Helper()
	b := &captureBackend{}
	if err := Diagram(spec, opts...).Playback(b); err != nil {
		t.Fatalf("Playback failed: %v", err)
	}
	return b
}

func firstPoint(p *gg.Path) gg.Point {
	if m, ok := p.Elements()[0].(gg.MoveTo); ok {
		return m.Point
	}
	return gg.Point{X: math.NaN(), Y: math.NaN()}
}

func near(a, b gg.Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestDiagramSize(t *testing.T) {
	fig := Diagram(ggcircle.DefaultCircleSpec())
	if fig.Width() != DefaultWidth || fig.Height() != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", fig.Width(), fig.Height(), DefaultWidth, DefaultHeight)
	}
	fig = Diagram(ggcircle.DefaultCircleSpec(), WithSize(300, 200))
	if fig.Width() != 300 || fig.Height() != 200 {
		t.Errorf("WithSize: size = %dx%d, want 300x200", fig.Width(), fig.Height())
	}
	fig = Diagram(ggcircle.DefaultCircleSpec(), WithSize(0, 200))
	if fig.Width() != DefaultWidth {
		t.Errorf("WithSize(0, 200) should be ignored, width = %d", fig.Width())
	}
}

func TestDiagramMarkers(t *testing.T) {
	spec := ggcircle.CircleSpec{Center: r2.Vec{X: 0, Y: 0}, Radius: 5, PointCount: 4, PointColor: "#00FF00"}
	b := capture(t, spec)

	if len(b.fills) != 4 {
		t.Fatalf("got %d markers, want 4", len(b.fills))
	}
	l := NewLayout(spec, DefaultWidth, DefaultHeight)
	for i, p := range spec.Points() {
		x, y := l.Map(p)
		want := gg.Point{X: x + DefaultMarkerRadius, Y: y}
		if got := firstPoint(b.fills[i].path); !near(got, want) {
			t.Errorf("marker %d starts at %v, want %v", i, got, want)
		}
		if b.fills[i].color != gg.Hex("#00FF00") {
			t.Errorf("marker %d color = %v, want green", i, b.fills[i].color)
		}
	}

	// Markers are drawn on top of everything else.
	last := b.order[len(b.order)-4:]
	for _, op := range last {
		if op != "fill" {
			t.Errorf("last operations = %v, want markers last", last)
			break
		}
	}
}

func TestDiagramMarkerRadius(t *testing.T) {
	spec := ggcircle.CircleSpec{Radius: 5, PointCount: 1, PointColor: "#000000"}
	b := capture(t, spec, WithMarkerRadius(7))
	l := NewLayout(spec, DefaultWidth, DefaultHeight)
	x, y := l.Map(r2.Vec{X: 5, Y: 0})
	if got := firstPoint(b.fills[0].path); !near(got, gg.Point{X: x + 7, Y: y}) {
		t.Errorf("marker starts at %v, want radius 7 from (%v, %v)", got, x, y)
	}
}

func TestDiagramOutline(t *testing.T) {
	spec := ggcircle.CircleSpec{Center: r2.Vec{X: 2, Y: 3}, Radius: 1, PointCount: 1, PointColor: "#FF0000"}
	b := capture(t, spec)
	l := NewLayout(spec, DefaultWidth, DefaultHeight)

	var dashed []strokeCall
	for _, s := range b.strokes {
		if s.stroke.IsDashed() {
			dashed = append(dashed, s)
		}
	}
	if len(dashed) != 1 {
		t.Fatalf("got %d dashed strokes, want 1 (the outline)", len(dashed))
	}
	outline := dashed[0]
	if outline.color != gg.Black {
		t.Errorf("outline color = %v, want black", outline.color)
	}
	if outline.stroke.Width != 1 {
		t.Errorf("outline width = %v, want 1", outline.stroke.Width)
	}
	cx, cy := l.Map(spec.Center)
	want := gg.Point{X: cx + l.Scale(), Y: cy}
	if got := firstPoint(outline.path); !near(got, want) {
		t.Errorf("outline starts at %v, want %v", got, want)
	}

	// The single marker sits on the outline.
	x, y := l.Map(r2.Vec{X: 3, Y: 3})
	if !near(gg.Point{X: x, Y: y}, want) {
		t.Errorf("point (3, 3) maps to (%v, %v), want %v", x, y, want)
	}
}

func TestDiagramTexts(t *testing.T) {
	b := capture(t, ggcircle.DefaultCircleSpec())

	var texts []string
	for _, c := range b.texts {
		texts = append(texts, c.text)
	}
	if !slices.Contains(texts, DefaultTitle) {
		t.Errorf("texts %v missing title", texts)
	}
	for _, label := range []string{"-5.0 m", "-2.5 m", "0.0 m", "2.5 m", "5.0 m"} {
		// Once on each axis.
		if n := countOf(texts, label); n != 2 {
			t.Errorf("label %q appears %d times, want 2", label, n)
		}
	}
	for _, c := range b.texts {
		if strings.HasSuffix(c.text, " m") && c.size != tickFontSize {
			t.Errorf("label %q size = %v, want %v", c.text, c.size, tickFontSize)
		}
	}
}

func TestDiagramTitleOption(t *testing.T) {
	b := capture(t, ggcircle.DefaultCircleSpec(), WithTitle("Custom"))
	if !containsText(b, "Custom") {
		t.Error("custom title missing")
	}
	if containsText(b, DefaultTitle) {
		t.Error("default title should be replaced")
	}

	b = capture(t, ggcircle.DefaultCircleSpec(), WithTitle(""))
	for _, c := range b.texts {
		if !strings.HasSuffix(c.text, " m") {
			t.Errorf("unexpected text %q with empty title", c.text)
		}
	}
}

func TestDiagramOriginLines(t *testing.T) {
	tests := []struct {
		name     string
		center   r2.Vec
		segments int
	}{
		{"origin in view", r2.Vec{X: 0, Y: 0}, 2},
		{"only x origin in view", r2.Vec{X: 0, Y: 20}, 1},
		{"only y origin in view", r2.Vec{X: -20, Y: 1}, 1},
		{"origin out of view", r2.Vec{X: 20, Y: 20}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := ggcircle.CircleSpec{Center: tt.center, Radius: 5, PointCount: 3, PointColor: "#FF0000"}
			b := capture(t, spec)
			if got := originSegments(b, NewLayout(spec, DefaultWidth, DefaultHeight)); got != tt.segments {
				t.Errorf("origin segments = %d, want %d", got, tt.segments)
			}
		})
	}
}

// originSegments counts stroked lines that run through data x = 0 or y = 0
// across the whole plot box.
func originSegments(b *captureBackend, l Layout) int {
	n := 0
	x0, y0 := l.MapX(0), l.MapY(0)
	for _, s := range b.strokes {
		if s.color != gg.Black || s.stroke.IsDashed() {
			continue
		}
		elems := s.path.Elements()
		for i := 0; i+1 < len(elems); i++ {
			m, ok1 := elems[i].(gg.MoveTo)
			e, ok2 := elems[i+1].(gg.LineTo)
			if !ok1 || !ok2 {
				continue
			}
			horizontal := m.Point.Y == e.Point.Y && math.Abs(m.Point.Y-y0) < 1e-9 &&
				math.Abs(e.Point.X-m.Point.X-l.Box.W) < 1e-9
			vertical := m.Point.X == e.Point.X && math.Abs(m.Point.X-x0) < 1e-9 &&
				math.Abs(e.Point.Y-m.Point.Y-l.Box.H) < 1e-9
			if horizontal || vertical {
				n++
			}
		}
	}
	return n
}

func TestDiagramColorOnlyChangesMarkers(t *testing.T) {
	spec := ggcircle.DefaultCircleSpec()
	red := capture(t, spec)
	spec.PointColor = "#0000FF"
	blue := capture(t, spec)

	if !slices.Equal(red.order, blue.order) {
		t.Fatal("operation order differs between colors")
	}
	if fmt.Sprint(red.texts) != fmt.Sprint(blue.texts) {
		t.Error("texts differ between colors")
	}
	for i := range red.strokes {
		r, b := red.strokes[i], blue.strokes[i]
		if r.color != b.color || fmt.Sprint(r.path.Elements()) != fmt.Sprint(b.path.Elements()) {
			t.Errorf("stroke %d differs between colors", i)
		}
	}
	for i := range red.fills {
		r, b := red.fills[i], blue.fills[i]
		if fmt.Sprint(r.path.Elements()) != fmt.Sprint(b.path.Elements()) {
			t.Errorf("marker %d geometry differs between colors", i)
		}
		if r.color != gg.Hex("#FF0000") || b.color != gg.Hex("#0000FF") {
			t.Errorf("marker %d colors = %v / %v", i, r.color, b.color)
		}
	}
}

func TestDiagramGrid(t *testing.T) {
	b := capture(t, ggcircle.DefaultCircleSpec())
	var grid *strokeCall
	for i := range b.strokes {
		if b.strokes[i].color == gridColor {
			grid = &b.strokes[i]
			break
		}
	}
	if grid == nil {
		t.Fatal("no grid stroke")
	}
	// 5 ticks per axis, one MoveTo + LineTo each.
	if got := len(grid.path.Elements()); got != 20 {
		t.Errorf("grid has %d path elements, want 20", got)
	}
}

func countOf(s []string, v string) int {
	n := 0
	for _, x := range s {
		if x == v {
			n++
		}
	}
	return n
}

func containsText(b *captureBackend, s string) bool {
	for _, c := range b.texts {
		if c.text == s {
			return true
		}
	}
	return false
}
