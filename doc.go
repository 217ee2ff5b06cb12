// Package ggcircle samples evenly spaced points on a circle and describes the
// circle diagram built from them.
//
// # Overview
//
// The package holds the data model shared by the rest of the module:
//
//   - CircleSpec: center, radius, point count and point color of one diagram
//   - SamplePoints: the evenly spaced points on the circumference
//   - Ticks and TickLabel: axis ticks at half-radius steps
//
// Drawing lives in sub-packages. The plot package records the diagram with the
// recording package, and the recording backends play it back as PNG, SVG or
// PDF. The report package writes the two-page PDF export.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggcircle"
//	    "github.com/gogpu/ggcircle/plot"
//	    "github.com/gogpu/ggcircle/report"
//	)
//
//	spec := ggcircle.DefaultCircleSpec()
//	fig := plot.Diagram(spec)
//	path, err := report.NewExporter(os.TempDir()).Export(spec, fig)
//
// # Coordinate System
//
// Circle coordinates are mathematical: X increases right, Y increases up,
// angles in radians counter-clockwise from the positive X axis. The plot
// package maps them onto figure coordinates (origin top-left, Y down).
package ggcircle
