package recording

import "github.com/gogpu/gg"

// Brush is the paint used by fill, stroke and text commands.
// The figure only ever needs solid colors, so SolidBrush is the sole
// implementation.
type Brush interface {
	brushMarker()
}

// SolidBrush paints with a single color.
type SolidBrush struct {
	Color gg.RGBA
}

func (SolidBrush) brushMarker() {}

// NewSolidBrush creates a solid color brush.
func NewSolidBrush(color gg.RGBA) SolidBrush {
	return SolidBrush{Color: color}
}

// ColorOf returns the color of a brush, or opaque black for nil and unknown
// brushes.
func ColorOf(b Brush) gg.RGBA {
	if sb, ok := b.(SolidBrush); ok {
		return sb.Color
	}
	return gg.Black
}
