package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/plot"
	"github.com/gogpu/ggcircle/recording"
	"github.com/gogpu/ggcircle/recording/backends/pdf"
)

// Download metadata.
const (
	FileName  = "circle.pdf"
	MediaType = "application/pdf"
)

// Exported files are named filePrefix + id + fileSuffix.
const (
	filePrefix = "ggcircle-"
	fileSuffix = ".pdf"
)

// Write writes the two-page document for spec to w as PDF.
func Write(w io.Writer, spec ggcircle.CircleSpec, figure *recording.Recording) error {
	doc := pdf.NewBackend(pdf.WithTitle(plot.DefaultTitle))
	if err := Render(doc, spec, figure); err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Render plays the two pages for spec into doc. Page 1 is figure as
// recorded; a nil figure is replaced by plot.Diagram(spec). Page 2 is the
// Summary.
func Render(doc recording.Backend, spec ggcircle.CircleSpec, figure *recording.Recording) error {
	if figure == nil {
		figure = plot.Diagram(spec)
	}
	if err := figure.Playback(doc); err != nil {
		return fmt.Errorf("report: diagram page: %w", err)
	}
	if err := Summary(spec).Playback(doc); err != nil {
		return fmt.Errorf("report: summary page: %w", err)
	}
	return nil
}

// Exporter writes documents into a directory.
type Exporter struct {
	// Dir receives the exported files. Empty means os.TempDir().
	Dir string
}

// NewExporter returns an Exporter writing into dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

func (e *Exporter) dir() string {
	if e.Dir == "" {
		return os.TempDir()
	}
	return e.Dir
}

// Export writes the document to a new, unique file in Dir and returns its
// path. Concurrent exports never share a file.
func (e *Exporter) Export(spec ggcircle.CircleSpec, figure *recording.Recording) (string, error) {
	path := filepath.Join(e.dir(), filePrefix+uuid.NewString()+fileSuffix)
	if err := e.ExportTo(path, spec, figure); err != nil {
		return "", err
	}
	return path, nil
}

// ExportTo writes the document to path, replacing any existing file. The
// document is written to a temporary file first and renamed into place, so
// readers never observe a partial file.
func (e *Exporter) ExportTo(path string, spec ggcircle.CircleSpec, figure *recording.Recording) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ggcircle-*.tmp")
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	cw := &countingWriter{w: tmp}
	if err := Write(cw, spec, figure); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("report: rename to %s: %w", path, err)
	}

	ggcircle.Logger().Info("report: exported", "path", path, "bytes", cw.n, "spec", spec.String())
	return nil
}

// Remove deletes an exported file. A file that is already gone is not an
// error.
func (e *Exporter) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("report: remove %s: %w", path, err)
	}
	return nil
}

// Sweep removes exports in Dir last modified more than maxAge ago and
// returns how many were removed. Files not created by Export are left alone.
func (e *Exporter) Sweep(maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(e.dir(), filePrefix+"*"+fileSuffix))
	if err != nil {
		return 0, fmt.Errorf("report: sweep: %w", err)
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, path := range matches {
		if _, ok := IDOf(path); !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := e.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		ggcircle.Logger().Info("report: swept stale exports", "dir", e.dir(), "removed", removed)
	}
	return removed, errors.Join(errs...)
}

// IDOf extracts the export id from a path returned by Export.
func IDOf(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
