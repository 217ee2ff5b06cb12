// Package pdf renders recordings as pages of a PDF document built with the
// gxpdf creator.
//
// Each Begin/End pair played into the same Backend becomes one page, so a
// document with several pages is produced by playing several recordings
// into one Backend before calling WriteTo:
//
//	b := pdf.NewBackend(pdf.WithTitle("Circle"))
//	_ = figure.Playback(b)  // page 1
//	_ = summary.Playback(b) // page 2
//	_, err := b.WriteTo(w)
//
// Pages are A4 portrait. A recording is placed below the top margin,
// centered, and scaled down when it does not fit. Recordings use figure
// coordinates (Y down, one unit per point); the backend flips Y.
//
// Circles recorded with DrawCircle become ellipses; every other path is
// flattened into polygons. Text uses the standard Helvetica font, so
// characters outside Windows-1252 are replaced.
package pdf
