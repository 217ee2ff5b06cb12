// Package raster renders recordings to pixel images using gg.Context.
//
// The web form shows the diagram as PNG through this backend, and the CLI
// render command writes it to disk.
//
// # Example
//
//	import _ "github.com/gogpu/ggcircle/recording/backends/raster"
//
//	backend, _ := recording.NewBackend("raster")
//	_ = fig.Playback(backend)
//	_, _ = backend.(recording.WriterBackend).WriteTo(w)
//
// Text is drawn with the Go Regular font from golang.org/x/image.
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// Option configures a raster Backend.
type Option func(*Backend)

// WithScale renders at factor times the figure size, for high-density
// displays. Factors <= 0 are ignored.
func WithScale(factor float64) Option {
	return func(b *Backend) {
		if factor > 0 {
			b.scale = factor
		}
	}
}

// WithBackground sets the color the canvas is cleared to. Default white.
func WithBackground(c gg.RGBA) Option {
	return func(b *Backend) {
		b.background = c
	}
}

// Backend renders recordings to a pixel image using gg.Context.
type Backend struct {
	ctx        *gg.Context
	width      int
	height     int
	scale      float64
	background gg.RGBA
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{scale: 1, background: gg.White}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin allocates a canvas of the figure size times the scale factor and
// clears it to the background color.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster: invalid canvas size %dx%d", width, height)
	}
	b.width = int(float64(width)*b.scale + 0.5)
	b.height = int(float64(height)*b.scale + 0.5)
	b.ctx = gg.NewContext(b.width, b.height)
	b.ctx.ClearWithColor(b.background)
	ggcircle.Logger().Debug("raster: begin", "width", b.width, "height", b.height)
	return nil
}

// End finalizes the rendering.
func (b *Backend) End() error {
	return nil
}

// Save saves the current graphics state onto a stack.
func (b *Backend) Save() {
	b.ctx.Push()
}

// Restore restores the graphics state from the stack.
func (b *Backend) Restore() {
	b.ctx.Pop()
}

// FillPath fills the given path with the brush.
func (b *Backend) FillPath(path *gg.Path, brush recording.Brush) {
	if path == nil {
		return
	}
	b.setColor(brush)
	b.setPath(path)
	_ = b.ctx.Fill()
}

// StrokePath strokes the given path with the brush and stroke style.
func (b *Backend) StrokePath(path *gg.Path, brush recording.Brush, stroke recording.Stroke) {
	if path == nil {
		return
	}
	b.setColor(brush)
	b.ctx.SetLineWidth(stroke.Width * b.scale)
	b.ctx.SetLineCap(convertLineCap(stroke.Cap))
	if stroke.IsDashed() {
		dashes := make([]float64, len(stroke.DashPattern))
		for i, v := range stroke.DashPattern {
			dashes[i] = v * b.scale
		}
		b.ctx.SetDash(dashes...)
		b.ctx.SetDashOffset(stroke.DashOffset * b.scale)
		// gg's dasher only handles line segments.
		b.setPolylines(recording.Flatten(path, recording.DefaultTolerance/b.scale))
	} else {
		b.ctx.ClearDash()
		b.setPath(path)
	}
	_ = b.ctx.Stroke()
}

// DrawText draws s with the Go Regular face at the requested size.
func (b *Backend) DrawText(s string, x, y, size float64, align recording.Align, brush recording.Brush) {
	face, err := faceFor(size * b.scale)
	if err != nil {
		ggcircle.Logger().Warn("raster: font unavailable", "err", err)
		return
	}
	b.setColor(brush)
	b.ctx.SetFont(face)
	w := face.Advance(s)
	b.ctx.DrawString(s, x*b.scale-w*align.Factor(), y*b.scale)
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.ctx == nil {
		return 0, fmt.Errorf("raster: WriteTo before Begin")
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.ctx.Image())
	return cw.n, err
}

// SaveToFile saves the rendered content as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	if b.ctx == nil {
		return fmt.Errorf("raster: SaveToFile before Begin")
	}
	return b.ctx.SavePNG(path)
}

// Image returns the rendered image.
func (b *Backend) Image() image.Image {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Image()
}

// Width returns the canvas width in pixels.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the canvas height in pixels.
func (b *Backend) Height() int {
	return b.height
}

func (b *Backend) setColor(brush recording.Brush) {
	c := recording.ColorOf(brush)
	b.ctx.SetRGBA(c.R, c.G, c.B, c.A)
}

// setPath replaces the context path with path scaled to the canvas.
func (b *Backend) setPath(path *gg.Path) {
	s := b.scale
	b.ctx.ClearPath()
	for _, elem := range path.Elements() {
		switch e := elem.(type) {
		case gg.MoveTo:
			b.ctx.MoveTo(e.Point.X*s, e.Point.Y*s)
		case gg.LineTo:
			b.ctx.LineTo(e.Point.X*s, e.Point.Y*s)
		case gg.QuadTo:
			b.ctx.QuadraticTo(e.Control.X*s, e.Control.Y*s, e.Point.X*s, e.Point.Y*s)
		case gg.CubicTo:
			b.ctx.CubicTo(e.Control1.X*s, e.Control1.Y*s, e.Control2.X*s, e.Control2.Y*s, e.Point.X*s, e.Point.Y*s)
		case gg.Close:
			b.ctx.ClosePath()
		}
	}
}

// setPolylines replaces the context path with flattened subpaths scaled to
// the canvas.
func (b *Backend) setPolylines(subs []recording.Subpath) {
	s := b.scale
	b.ctx.ClearPath()
	for _, sub := range subs {
		for i, p := range sub.Points {
			if i == 0 {
				b.ctx.MoveTo(p.X*s, p.Y*s)
				continue
			}
			b.ctx.LineTo(p.X*s, p.Y*s)
		}
		if sub.Closed {
			b.ctx.ClosePath()
		}
	}
}

func convertLineCap(lineCap recording.LineCap) gg.LineCap {
	switch lineCap {
	case recording.LineCapRound:
		return gg.LineCapRound
	case recording.LineCapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

var (
	fontSource = sync.OnceValues(func() (*text.FontSource, error) {
		return text.NewFontSource(goregular.TTF)
	})

	facesMu sync.Mutex
	faces   = make(map[float64]text.Face)
)

// faceFor returns a cached Go Regular face of the given size.
func faceFor(size float64) (text.Face, error) {
	src, err := fontSource()
	if err != nil {
		return nil, err
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f := src.Face(size)
	faces[size] = f
	return f, nil
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
