// Package svg renders recordings as SVG documents using ajstarks/svgo.
//
// The web form embeds the diagram as inline SVG produced here. Every
// element carries its full style, so Save and Restore only open and close
// groups.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/gogpu/gg"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/recording"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	})
}

// FontFamily is the font stack used for text elements.
const FontFamily = "Helvetica,Arial,sans-serif"

// Option configures an SVG Backend.
type Option func(*Backend)

// WithTitle adds a <title> element to the document.
func WithTitle(title string) Option {
	return func(b *Backend) {
		b.title = title
	}
}

// WithInline omits the XML declaration so the output can be embedded in
// an HTML page.
func WithInline() Option {
	return func(b *Backend) {
		b.inline = true
	}
}

// WithBackground sets the fill of the background rectangle. Default white.
func WithBackground(c gg.RGBA) Option {
	return func(b *Backend) {
		b.background = c
	}
}

// Backend renders recordings to an SVG document.
type Backend struct {
	title      string
	inline     bool
	background gg.RGBA

	buf    bytes.Buffer
	canvas *svgo.SVG
	width  int
	height int
	depth  int
	done   bool
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
)

// NewBackend creates a new SVG backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{background: gg.White}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Begin starts a document with a viewBox matching the figure size.
// A second Begin discards the previous document.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: invalid size %dx%d", width, height)
	}
	b.buf.Reset()
	b.canvas = svgo.New(&b.buf)
	b.width, b.height = width, height
	b.depth = 0
	b.done = false

	b.canvas.Startview(width, height, 0, 0, width, height)
	if b.title != "" {
		b.canvas.Title(b.title)
	}
	b.canvas.Rect(0, 0, width, height, "fill:"+colorString(b.background))
	return nil
}

// End closes open groups and the document.
func (b *Backend) End() error {
	if b.canvas == nil {
		return fmt.Errorf("svg: End called before Begin")
	}
	for ; b.depth > 0; b.depth-- {
		b.canvas.Gend()
	}
	b.canvas.End()
	b.done = true
	ggcircle.Logger().Debug("svg: document finished",
		"width", b.width, "height", b.height, "bytes", b.buf.Len())
	return nil
}

// Save opens a group.
func (b *Backend) Save() {
	if b.canvas == nil {
		return
	}
	b.depth++
	b.canvas.Group()
}

// Restore closes the innermost group. No-op when none is open.
func (b *Backend) Restore() {
	if b.canvas == nil || b.depth == 0 {
		return
	}
	b.depth--
	b.canvas.Gend()
}

// FillPath writes path as a filled <path> element.
func (b *Backend) FillPath(path *gg.Path, brush recording.Brush) {
	if b.canvas == nil || path == nil {
		return
	}
	c := recording.ColorOf(brush)
	style := "fill:" + colorString(c) + ";stroke:none"
	if c.A < 1 {
		style += ";fill-opacity:" + num(c.A)
	}
	b.canvas.Path(pathData(path), style)
}

// StrokePath writes path as a stroked <path> element.
func (b *Backend) StrokePath(path *gg.Path, brush recording.Brush, stroke recording.Stroke) {
	if b.canvas == nil || path == nil {
		return
	}
	c := recording.ColorOf(brush)
	var style strings.Builder
	fmt.Fprintf(&style, "fill:none;stroke:%s;stroke-width:%s;stroke-linecap:%s",
		colorString(c), num(stroke.Width), lineCap(stroke.Cap))
	if c.A < 1 {
		style.WriteString(";stroke-opacity:" + num(c.A))
	}
	if stroke.IsDashed() {
		parts := make([]string, len(stroke.DashPattern))
		for i, v := range stroke.DashPattern {
			parts[i] = num(v)
		}
		style.WriteString(";stroke-dasharray:" + strings.Join(parts, ","))
		if stroke.DashOffset != 0 {
			style.WriteString(";stroke-dashoffset:" + num(stroke.DashOffset))
		}
	}
	b.canvas.Path(pathData(path), style.String())
}

// DrawText writes a <text> element. The position is applied through a
// translated group so fractional coordinates survive.
func (b *Backend) DrawText(s string, x, y, size float64, align recording.Align, brush recording.Brush) {
	if b.canvas == nil || s == "" {
		return
	}
	b.canvas.Gtransform("translate(" + num(x) + "," + num(y) + ")")
	b.canvas.Text(0, 0, s, fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s;text-anchor:%s",
		FontFamily, num(size), colorString(recording.ColorOf(brush)), anchor(align)))
	b.canvas.Gend()
}

// WriteTo writes the finished document.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if !b.done {
		return 0, fmt.Errorf("svg: document not finished")
	}
	data := b.buf.Bytes()
	if b.inline {
		if i := bytes.Index(data, []byte("<svg")); i > 0 {
			data = data[i:]
		}
	}
	n, err := w.Write(data)
	return int64(n), err
}

// SaveToFile writes the document to path.
func (b *Backend) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Width returns the document width.
func (b *Backend) Width() int { return b.width }

// Height returns the document height.
func (b *Backend) Height() int { return b.height }

func pathData(path *gg.Path) string {
	var d strings.Builder
	for _, elem := range path.Elements() {
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		switch e := elem.(type) {
		case gg.MoveTo:
			d.WriteString("M" + num(e.Point.X) + " " + num(e.Point.Y))
		case gg.LineTo:
			d.WriteString("L" + num(e.Point.X) + " " + num(e.Point.Y))
		case gg.QuadTo:
			d.WriteString("Q" + num(e.Control.X) + " " + num(e.Control.Y) + " " +
				num(e.Point.X) + " " + num(e.Point.Y))
		case gg.CubicTo:
			d.WriteString("C" + num(e.Control1.X) + " " + num(e.Control1.Y) + " " +
				num(e.Control2.X) + " " + num(e.Control2.Y) + " " +
				num(e.Point.X) + " " + num(e.Point.Y))
		case gg.Close:
			d.WriteString("Z")
		}
	}
	return d.String()
}

func colorString(c gg.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func lineCap(c recording.LineCap) string {
	switch c {
	case recording.LineCapRound:
		return "round"
	case recording.LineCapSquare:
		return "square"
	default:
		return "butt"
	}
}

func anchor(a recording.Align) string {
	switch a {
	case recording.AlignCenter:
		return "middle"
	case recording.AlignRight:
		return "end"
	default:
		return "start"
	}
}
