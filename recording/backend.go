package recording

import (
	"io"

	"github.com/gogpu/gg"
)

// Backend is the interface that all output backends implement.
// Backends receive drawing commands in figure coordinates and translate them
// to their output format (PNG pixels, SVG elements, PDF content streams).
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Handle every Backend method
//  3. Manage its own state stack for Save/Restore
//  4. Translate coordinates if needed (e.g. PDF Y-flip)
//  5. Measure text with its own font when honoring Align
type Backend interface {
	// Begin prepares a canvas of the given size. Backends that hold several
	// pages start a new page on each Begin.
	Begin(width, height int) error

	// End finishes the canvas started by Begin.
	End() error

	// Save pushes the graphics state.
	Save()

	// Restore pops the graphics state. No-op on an empty stack.
	Restore()

	// FillPath fills path with the brush using the non-zero rule.
	FillPath(path *gg.Path, brush Brush)

	// StrokePath strokes path with the brush and stroke style.
	StrokePath(path *gg.Path, brush Brush, stroke Stroke)

	// DrawText draws one line of text on the baseline y, aligned to x.
	DrawText(s string, x, y, size float64, align Align, brush Brush)
}

// WriterBackend extends Backend with the ability to write output to an
// io.Writer. WriteTo is only valid after End.
type WriterBackend interface {
	Backend
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output to a file.
// SaveToFile is only valid after End.
type FileBackend interface {
	Backend
	SaveToFile(path string) error
}
