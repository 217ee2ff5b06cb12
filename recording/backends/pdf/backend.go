package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/coregx/gxpdf/creator"
	"github.com/gogpu/gg"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

func init() {
	recording.Register("pdf", func() recording.Backend {
		return NewBackend()
	})
}

// Page geometry of the generated document: A4 portrait, the creator's
// default page, in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	// DefaultMargin is the blank border kept around each recording.
	DefaultMargin = 36.0
)

// Option configures a PDF Backend.
type Option func(*Backend)

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(b *Backend) {
		b.title = title
	}
}

// WithMargin sets the blank border around each recording in points.
// Negative values are ignored.
func WithMargin(margin float64) Option {
	return func(b *Backend) {
		if margin >= 0 {
			b.margin = margin
		}
	}
}

// Backend accumulates pages and writes them as one PDF document.
type Backend struct {
	title  string
	margin float64

	pages []*page
	cur   *page
}

type page struct {
	width, height float64
	place         placement
	ops           []op
	depth         int
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates an empty PDF document.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{margin: DefaultMargin}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PageCount returns the number of finished pages.
func (b *Backend) PageCount() int {
	return len(b.pages)
}

// Begin opens a new page for a recording of the given size in points.
func (b *Backend) Begin(width, height int) error {
	if b.cur != nil {
		return ErrPageOpen
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pdf: invalid page size %dx%d", width, height)
	}
	w, h := float64(width), float64(height)
	b.cur = &page{width: w, height: h, place: place(w, h, b.margin)}
	return nil
}

// End closes the current page.
func (b *Backend) End() error {
	if b.cur == nil {
		return ErrNoPage
	}
	b.pages = append(b.pages, b.cur)
	ggcircle.Logger().Debug("pdf: page finished",
		"page", len(b.pages), "width", b.cur.width, "height", b.cur.height,
		"scale", b.cur.place.scale, "ops", len(b.cur.ops))
	b.cur = nil
	return nil
}

// Save pushes the graphics state. Every command carries its complete
// style, so the stack only tracks nesting.
func (b *Backend) Save() {
	if b.cur != nil {
		b.cur.depth++
	}
}

// Restore pops the graphics state. No-op on an empty stack.
func (b *Backend) Restore() {
	if b.cur != nil && b.cur.depth > 0 {
		b.cur.depth--
	}
}

// FillPath fills every closed region of path with the brush color.
func (b *Backend) FillPath(path *gg.Path, brush recording.Brush) {
	if b.cur == nil || path == nil {
		return
	}
	c := recording.ColorOf(brush)
	pl := b.cur.place
	if cx, cy, r, ok := circleOf(path); ok {
		x, y := pl.point(cx, cy)
		b.add(ellipseOp{cx: x, cy: y, r: r * pl.scale, opts: &creator.EllipseOptions{
			FillColor: rgb(c),
			Opacity:   opacity(c),
		}})
		return
	}
	for _, sub := range recording.Flatten(path, recording.DefaultTolerance/pl.scale) {
		if len(sub.Points) < 3 {
			continue
		}
		b.add(polygonOp{vertices: pl.points(sub.Points), opts: &creator.PolygonOptions{
			FillColor: rgb(c),
			Opacity:   opacity(c),
		}})
	}
}

// StrokePath strokes path with the brush color and stroke style.
// Line caps are not carried into the document.
func (b *Backend) StrokePath(path *gg.Path, brush recording.Brush, stroke recording.Stroke) {
	if b.cur == nil || path == nil {
		return
	}
	c := recording.ColorOf(brush)
	pl := b.cur.place
	width := stroke.Width * pl.scale
	dashed := stroke.IsDashed()

	if !dashed {
		if cx, cy, r, ok := circleOf(path); ok {
			x, y := pl.point(cx, cy)
			b.add(ellipseOp{cx: x, cy: y, r: r * pl.scale, opts: &creator.EllipseOptions{
				StrokeColor: rgb(c),
				StrokeWidth: width,
				Opacity:     opacity(c),
			}})
			return
		}
	}

	var dashes []float64
	if dashed {
		dashes = make([]float64, len(stroke.DashPattern))
		for i, v := range stroke.DashPattern {
			dashes[i] = v * pl.scale
		}
	}
	outline := func(vertices []creator.Point, dash bool) {
		opts := &creator.PolygonOptions{
			StrokeColor: rgb(c),
			StrokeWidth: width,
			Opacity:     opacity(c),
		}
		if dash {
			opts.Dashed = true
			opts.DashArray = dashes
			opts.DashPhase = stroke.DashOffset * pl.scale
		}
		b.add(polygonOp{vertices: vertices, opts: opts})
	}

	for _, sub := range recording.Flatten(path, recording.DefaultTolerance/pl.scale) {
		pts := pl.points(sub.Points)
		switch {
		case len(pts) < 2:
			continue
		case sub.Closed && len(pts) >= 3:
			outline(pts, dashed)
		case dashed:
			for _, piece := range dashPolyline(pts, dashes, stroke.DashOffset*pl.scale) {
				outline(retrace(piece), false)
			}
		default:
			outline(retrace(pts), false)
		}
	}
}

// DrawText sets s in Helvetica. Alignment uses the Helvetica metrics;
// characters outside Windows-1252 are replaced with '?'.
func (b *Backend) DrawText(s string, x, y, size float64, align recording.Align, brush recording.Brush) {
	if b.cur == nil || s == "" {
		return
	}
	text := winAnsiText(s)
	x -= textWidth(text, size) * align.Factor()
	pl := b.cur.place
	px, py := pl.point(x, y)
	c := recording.ColorOf(brush)
	b.add(textOp{text: text, x: px, y: py, size: size * pl.scale, color: *rgb(c)})
}

// WriteTo writes the complete document.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if err := b.ready(); err != nil {
		return 0, err
	}
	// The creator writes documents to a path.
	tmp, err := os.CreateTemp("", "ggcircle-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("pdf: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("pdf: %w", err)
	}
	if err := b.SaveToFile(name); err != nil {
		return 0, err
	}

	f, err := os.Open(name)
	if err != nil {
		return 0, fmt.Errorf("pdf: %w", err)
	}
	defer f.Close()
	return io.Copy(w, f)
}

// SaveToFile writes the document to path, replacing any existing file.
func (b *Backend) SaveToFile(path string) error {
	if err := b.ready(); err != nil {
		return err
	}
	c, err := b.build()
	if err != nil {
		return err
	}
	if err := c.WriteToFile(path); err != nil {
		return fmt.Errorf("pdf: write %s: %w", path, err)
	}
	ggcircle.Logger().Debug("pdf: document written", "path", path, "pages", len(b.pages))
	return nil
}

func (b *Backend) ready() error {
	if b.cur != nil {
		return ErrPageOpen
	}
	if len(b.pages) == 0 {
		return ErrNoPages
	}
	return nil
}

// build replays the finished pages into a new document.
func (b *Backend) build() (*creator.Creator, error) {
	c := creator.New()
	if b.title != "" {
		c.SetTitle(b.title)
	}
	for i, p := range b.pages {
		pg, err := c.NewPage()
		if err != nil {
			return nil, fmt.Errorf("pdf: page %d: %w", i+1, err)
		}
		for _, o := range p.ops {
			if err := o.draw(pg); err != nil {
				return nil, fmt.Errorf("pdf: page %d: %w", i+1, err)
			}
		}
	}
	return c, nil
}

func (b *Backend) add(o op) {
	b.cur.ops = append(b.cur.ops, o)
}

func rgb(c gg.RGBA) *creator.Color {
	return &creator.Color{R: c.R, G: c.G, B: c.B}
}

// opacity returns nil for opaque colors.
func opacity(c gg.RGBA) *float64 {
	if c.A >= 1 {
		return nil
	}
	a := max(c.A, 0)
	return &a
}
