// Package recording captures figure drawing as commands that can be played
// back to several output formats.
//
// The circle diagram is drawn once into a Recorder and the resulting
// Recording is replayed wherever it is needed: the raster backend encodes it
// as PNG, the svg backend inlines it into the web page, and the pdf backend
// turns it into a page of the exported report.
//
// # Architecture
//
//   - Recorder: mirrors the gg.Context drawing API and captures commands
//   - Recording: immutable command list plus pooled paths and brushes
//   - Backend: renders commands to a specific output format
//
// # Basic Usage
//
//	rec := recording.NewRecorder(640, 480)
//	rec.SetStrokeColor(gg.Black)
//	rec.SetDash(6, 4)
//	rec.DrawCircle(320, 240, 100)
//	rec.Stroke()
//	r := rec.FinishRecording()
//
//	var buf bytes.Buffer
//	err := recording.Render(r, "svg", &buf)
//
// # Backend Registration
//
// Backends register themselves in init, following the database/sql driver
// pattern. Import a backend package with a blank identifier:
//
//	import (
//	    _ "github.com/gogpu/ggcircle/recording/backends/pdf"
//	    _ "github.com/gogpu/ggcircle/recording/backends/raster"
//	    _ "github.com/gogpu/ggcircle/recording/backends/svg"
//	)
//
// # Coordinates
//
// Recordings use figure coordinates: origin at the top-left corner, X to the
// right, Y down, one unit per pixel (or per PDF point). Backends whose native
// space differs, such as PDF, flip Y themselves.
//
// # Thread Safety
//
// Recorder is not safe for concurrent use. A finished Recording is immutable
// and can be played back from multiple goroutines.
package recording
