package recording

import (
	"math"

	"github.com/gogpu/gg"
)

// Recorder captures drawing operations as commands.
// It mirrors the subset of the gg.Context API the figures need but produces
// commands instead of pixels. Use FinishRecording to obtain an immutable
// Recording.
//
// Example:
//
//	rec := recording.NewRecorder(640, 480)
//	rec.SetFillColor(gg.Hex("#FF0000"))
//	rec.DrawCircle(100, 100, 4)
//	rec.Fill()
//	r := rec.FinishRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	resources     *ResourcePool

	currentPath *gg.Path

	fillBrush   Brush
	strokeBrush Brush
	lineWidth   float64
	lineCap     LineCap
	dashPattern []float64
	dashOffset  float64
	fontSize    float64

	stateStack []recorderState
}

// recorderState stores the graphics state for Save/Restore.
type recorderState struct {
	fillBrush   Brush
	strokeBrush Brush
	lineWidth   float64
	lineCap     LineCap
	dashPattern []float64
	dashOffset  float64
	fontSize    float64
}

// DefaultFontSize is the font size a new Recorder starts with.
const DefaultFontSize = 10.0

// NewRecorder creates a Recorder for a figure of the given size.
// It starts with black fill and stroke, a 1-unit solid line with butt caps,
// and DefaultFontSize.
func NewRecorder(width, height int) *Recorder {
	black := NewSolidBrush(gg.Black)
	return &Recorder{
		width:       width,
		height:      height,
		commands:    make([]Command, 0, 128),
		resources:   NewResourcePool(),
		currentPath: gg.NewPath(),
		fillBrush:   black,
		strokeBrush: black,
		lineWidth:   1.0,
		lineCap:     LineCapButt,
		fontSize:    DefaultFontSize,
		stateStack:  make([]recorderState, 0, 4),
	}
}

// FinishRecording returns an immutable Recording of all recorded commands.
// The Recorder must not be used afterwards.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
}

// Width returns the figure width.
func (r *Recorder) Width() int { return r.width }

// Height returns the figure height.
func (r *Recorder) Height() int { return r.height }

// Save pushes the current style state.
func (r *Recorder) Save() {
	var dashCopy []float64
	if r.dashPattern != nil {
		dashCopy = make([]float64, len(r.dashPattern))
		copy(dashCopy, r.dashPattern)
	}
	r.stateStack = append(r.stateStack, recorderState{
		fillBrush:   r.fillBrush,
		strokeBrush: r.strokeBrush,
		lineWidth:   r.lineWidth,
		lineCap:     r.lineCap,
		dashPattern: dashCopy,
		dashOffset:  r.dashOffset,
		fontSize:    r.fontSize,
	})
	r.commands = append(r.commands, SaveCommand{})
}

// Restore pops the style state pushed by Save.
// If the stack is empty, this is a no-op.
func (r *Recorder) Restore() {
	if len(r.stateStack) == 0 {
		return
	}
	state := r.stateStack[len(r.stateStack)-1]
	r.stateStack = r.stateStack[:len(r.stateStack)-1]

	r.fillBrush = state.fillBrush
	r.strokeBrush = state.strokeBrush
	r.lineWidth = state.lineWidth
	r.lineCap = state.lineCap
	r.dashPattern = state.dashPattern
	r.dashOffset = state.dashOffset
	r.fontSize = state.fontSize

	r.commands = append(r.commands, RestoreCommand{})
}

// Push is an alias for Save, matching gg.Context.
func (r *Recorder) Push() { r.Save() }

// Pop is an alias for Restore, matching gg.Context.
func (r *Recorder) Pop() { r.Restore() }

// SetColor sets both the fill and the stroke color.
func (r *Recorder) SetColor(c gg.RGBA) {
	b := NewSolidBrush(c)
	r.fillBrush = b
	r.strokeBrush = b
}

// SetRGB sets both colors from RGB components in [0, 1].
func (r *Recorder) SetRGB(red, green, blue float64) {
	r.SetColor(gg.RGB(red, green, blue))
}

// SetHexColor sets both colors from a hex string such as "#FF0000".
func (r *Recorder) SetHexColor(hex string) {
	r.SetColor(gg.Hex(hex))
}

// SetFillColor sets the color used by Fill and DrawString.
func (r *Recorder) SetFillColor(c gg.RGBA) {
	r.fillBrush = NewSolidBrush(c)
}

// SetStrokeColor sets the color used by Stroke.
func (r *Recorder) SetStrokeColor(c gg.RGBA) {
	r.strokeBrush = NewSolidBrush(c)
}

// SetLineWidth sets the stroke width.
func (r *Recorder) SetLineWidth(width float64) {
	r.lineWidth = width
}

// SetLineCap sets the stroke cap style.
func (r *Recorder) SetLineCap(lc LineCap) {
	r.lineCap = lc
}

// SetDash sets the dash pattern. Call with no arguments for a solid line.
func (r *Recorder) SetDash(lengths ...float64) {
	if len(lengths) == 0 {
		r.dashPattern = nil
		return
	}
	r.dashPattern = make([]float64, len(lengths))
	copy(r.dashPattern, lengths)
}

// SetDashOffset sets the starting offset into the dash pattern.
func (r *Recorder) SetDashOffset(offset float64) {
	r.dashOffset = offset
}

// ClearDash restores solid lines.
func (r *Recorder) ClearDash() {
	r.dashPattern = nil
	r.dashOffset = 0
}

// SetFontSize sets the font size for DrawString.
func (r *Recorder) SetFontSize(size float64) {
	r.fontSize = size
}

// FontSize returns the current font size.
func (r *Recorder) FontSize() float64 {
	return r.fontSize
}

// MoveTo starts a new subpath.
func (r *Recorder) MoveTo(x, y float64) {
	r.currentPath.MoveTo(x, y)
}

// LineTo adds a line segment.
func (r *Recorder) LineTo(x, y float64) {
	r.currentPath.LineTo(x, y)
}

// QuadraticTo adds a quadratic Bezier segment.
func (r *Recorder) QuadraticTo(cx, cy, x, y float64) {
	r.currentPath.QuadraticTo(cx, cy, x, y)
}

// CubicTo adds a cubic Bezier segment.
func (r *Recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.currentPath.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// ClosePath closes the current subpath.
func (r *Recorder) ClosePath() {
	r.currentPath.Close()
}

// ClearPath discards the current path.
func (r *Recorder) ClearPath() {
	r.currentPath = gg.NewPath()
}

// DrawLine adds a line segment as its own subpath.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.MoveTo(x1, y1)
	r.LineTo(x2, y2)
}

// DrawRectangle adds a closed rectangle.
func (r *Recorder) DrawRectangle(x, y, w, h float64) {
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.ClosePath()
}

// circleKappa is the control point distance for approximating a quarter
// circle with one cubic Bezier: 4/3 * (sqrt(2) - 1).
const circleKappa = 0.5522847498307936

// DrawCircle adds a closed circle made of four cubic segments, starting at
// angle 0.
func (r *Recorder) DrawCircle(x, y, radius float64) {
	radius = math.Abs(radius)
	offset := radius * circleKappa

	r.MoveTo(x+radius, y)
	r.CubicTo(x+radius, y+offset, x+offset, y+radius, x, y+radius)
	r.CubicTo(x-offset, y+radius, x-radius, y+offset, x-radius, y)
	r.CubicTo(x-radius, y-offset, x-offset, y-radius, x, y-radius)
	r.CubicTo(x+offset, y-radius, x+radius, y-offset, x+radius, y)
	r.ClosePath()
}

// Fill fills the current path and clears it.
func (r *Recorder) Fill() {
	r.FillPreserve()
	r.currentPath = gg.NewPath()
}

// FillPreserve fills the current path without clearing it.
func (r *Recorder) FillPreserve() {
	if len(r.currentPath.Elements()) == 0 {
		return
	}
	r.commands = append(r.commands, FillPathCommand{
		Path:  r.resources.AddPath(r.currentPath),
		Brush: r.resources.AddBrush(r.fillBrush),
	})
}

// Stroke strokes the current path and clears it.
func (r *Recorder) Stroke() {
	r.StrokePreserve()
	r.currentPath = gg.NewPath()
}

// StrokePreserve strokes the current path without clearing it.
func (r *Recorder) StrokePreserve() {
	if len(r.currentPath.Elements()) == 0 {
		return
	}
	stroke := Stroke{
		Width:       r.lineWidth,
		Cap:         r.lineCap,
		DashPattern: r.dashPattern,
		DashOffset:  r.dashOffset,
	}
	r.commands = append(r.commands, StrokePathCommand{
		Path:   r.resources.AddPath(r.currentPath),
		Brush:  r.resources.AddBrush(r.strokeBrush),
		Stroke: stroke.Clone(),
	})
}

// DrawString draws s with its baseline starting at (x, y).
func (r *Recorder) DrawString(s string, x, y float64) {
	r.DrawStringAligned(s, x, y, AlignLeft)
}

// DrawStringAligned draws s on the baseline y, aligned to x.
// Text measurement is left to the backend, which knows its own font.
func (r *Recorder) DrawStringAligned(s string, x, y float64, align Align) {
	if s == "" {
		return
	}
	r.commands = append(r.commands, DrawTextCommand{
		Text:     s,
		X:        x,
		Y:        y,
		FontSize: r.fontSize,
		Align:    align,
		Brush:    r.resources.AddBrush(r.fillBrush),
	})
}

// Recording is an immutable container for recorded drawing commands.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the figure width.
func (r *Recording) Width() int { return r.width }

// Height returns the figure height.
func (r *Recording) Height() int { return r.height }

// Commands returns the recorded commands. Callers must not modify the slice.
func (r *Recording) Commands() []Command { return r.commands }

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool { return r.resources }

// Texts returns the text of every DrawText command in recording order.
func (r *Recording) Texts() []string {
	var out []string
	for _, cmd := range r.commands {
		if t, ok := cmd.(DrawTextCommand); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

// Playback replays the recording to the given backend, calling Begin before
// the first command and End after the last.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}

	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case SaveCommand:
			backend.Save()
		case RestoreCommand:
			backend.Restore()
		case FillPathCommand:
			backend.FillPath(r.resources.GetPath(c.Path), r.resources.GetBrush(c.Brush))
		case StrokePathCommand:
			backend.StrokePath(r.resources.GetPath(c.Path), r.resources.GetBrush(c.Brush), c.Stroke)
		case DrawTextCommand:
			backend.DrawText(c.Text, c.X, c.Y, c.FontSize, c.Align, r.resources.GetBrush(c.Brush))
		}
	}

	return backend.End()
}
