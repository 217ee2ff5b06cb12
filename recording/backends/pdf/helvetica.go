package pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// helveticaWidths holds the advance widths of Helvetica for the printable
// ASCII range 32..126, in 1/1000 em.
var helveticaWidths = [...]uint16{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // space - /
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, // 0 - 9
	278, 278, 584, 584, 584, 556, 1015, // : - @
	667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, // A - M
	722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, // N - Z
	278, 278, 278, 469, 556, 333, // [ - `
	556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, // a - m
	556, 556, 556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, // n - z
	334, 260, 334, 584, // { - ~
}

// defaultWidth is used for characters outside the table.
const defaultWidth = 556

// textWidth returns the width of s set in Helvetica at the given size.
func textWidth(s string, size float64) float64 {
	var units int
	for _, r := range s {
		if r >= 32 && int(r-32) < len(helveticaWidths) {
			units += int(helveticaWidths[r-32])
		} else {
			units += defaultWidth
		}
	}
	return float64(units) * size / 1000
}

// winAnsiText returns s with every character that the standard fonts
// cannot show, anything outside Windows-1252, replaced with '?'.
// Encoders are stateful, so each call gets its own.
func winAnsiText(s string) string {
	enc := charmap.Windows1252.NewEncoder()
	var b strings.Builder
	for _, r := range s {
		if _, err := enc.String(string(r)); err != nil || r < 32 {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
