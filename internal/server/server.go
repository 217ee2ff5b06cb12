// Package server is the web front end: a sidebar form with the circle
// parameters, the live diagram, and the PDF export with its download link.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/yuin/goldmark"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/internal/config"
	"github.com/gogpu/ggcircle/internal/figcache"
	"github.com/gogpu/ggcircle/plot"
	"github.com/gogpu/ggcircle/recording"
	_ "github.com/gogpu/ggcircle/recording/backends/raster"
	"github.com/gogpu/ggcircle/recording/backends/svg"
	"github.com/gogpu/ggcircle/report"
)

//go:embed web/index.html web/about.md
var webFS embed.FS

// qrSize is the edge length of the download QR code in pixels.
const qrSize = 256

// Server serves the circle form.
type Server struct {
	cfg      config.Config
	exporter *report.Exporter
	exports  *exportStore
	figures  *figcache.Cache
	page     *template.Template
	about    template.HTML
}

// New prepares a Server. The export directory is created if missing.
func New(cfg config.Config) (*Server, error) {
	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("server: export dir: %w", err)
	}
	page, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse template: %w", err)
	}
	md, err := webFS.ReadFile("web/about.md")
	if err != nil {
		return nil, fmt.Errorf("server: read about: %w", err)
	}
	// about.md is embedded, so its HTML is trusted.
	var about bytes.Buffer
	if err := goldmark.Convert(md, &about); err != nil {
		return nil, fmt.Errorf("server: render about: %w", err)
	}
	return &Server{
		cfg:      cfg,
		exporter: report.NewExporter(cfg.Export.Dir),
		exports:  newExportStore(),
		figures:  figcache.New(cfg.Figure.CacheSize),
		page:     page,
		about:    template.HTML(about.String()),
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /figure.svg", s.handleFigureSVG)
	mux.HandleFunc("GET /figure.png", s.handleFigurePNG)
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	mux.HandleFunc("GET /download/{id}/qr.png", s.handleDownloadQR)
	return logMiddleware(gzhttp.GzipHandler(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully. The export
// janitor runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go s.runJanitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		ggcircle.Logger().Info("server: listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer stop()
	ggcircle.Logger().Info("server: shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

type exportView struct {
	URL      template.URL
	QR       template.URL
	FileName string
}

type pageView struct {
	CenterX, CenterY string
	Radius           string
	PointCount       int
	PointColor       string

	MinRadius     float64
	MinPointCount int
	MaxPointCount int

	Figure        template.HTML
	PNGURL        template.URL
	SVGURL        template.URL
	Export        *exportView
	ExportMissing bool
	About         template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec, err := parseSpec(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The SVG backend escapes all text, so the figure is safe to inline.
	fig, err := s.figure(spec, formatInlineSVG)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	query := specValues(spec).Encode()
	view := pageView{
		CenterX:       formatFloat(spec.Center.X),
		CenterY:       formatFloat(spec.Center.Y),
		Radius:        formatFloat(spec.Radius),
		PointCount:    spec.PointCount,
		PointColor:    spec.PointColor,
		MinRadius:     ggcircle.MinRadius,
		MinPointCount: ggcircle.MinPointCount,
		MaxPointCount: ggcircle.MaxPointCount,
		Figure:        template.HTML(fig),
		PNGURL:        template.URL("/figure.png?" + query),
		SVGURL:        template.URL("/figure.svg?" + query),
		About:         s.about,
	}
	if id := q.Get(paramExport); id != "" {
		if _, ok := s.exports.get(id); ok {
			view.Export = &exportView{
				URL:      template.URL(downloadPath(id)),
				QR:       template.URL(downloadPath(id) + "/qr.png"),
				FileName: report.FileName,
			}
		} else {
			view.ExportMissing = true
		}
	}

	var page bytes.Buffer
	if err := s.page.Execute(&page, view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (s *Server) handleFigureSVG(w http.ResponseWriter, r *http.Request) {
	s.serveFigure(w, r, formatSVG, "image/svg+xml")
}

func (s *Server) handleFigurePNG(w http.ResponseWriter, r *http.Request) {
	s.serveFigure(w, r, formatPNG, "image/png")
}

func (s *Server) serveFigure(w http.ResponseWriter, r *http.Request, format, contentType string) {
	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := s.figure(spec, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

// Figure formats. formatSVG and formatPNG name registered recording
// backends; formatInlineSVG is SVG without the XML declaration.
const (
	formatSVG       = "svg"
	formatPNG       = "raster"
	formatInlineSVG = "svg-inline"
)

// figure renders the diagram for spec in format, through the figure cache.
func (s *Server) figure(spec ggcircle.CircleSpec, format string) ([]byte, error) {
	key := figcache.Key{Spec: spec, Format: format, Width: s.cfg.Figure.Width, Height: s.cfg.Figure.Height}
	return s.figures.GetOrRender(key, func() ([]byte, error) {
		var buf bytes.Buffer
		if format == formatInlineSVG {
			b := svg.NewBackend(svg.WithInline(), svg.WithTitle(plot.DefaultTitle))
			if err := s.diagram(spec).Playback(b); err != nil {
				return nil, err
			}
			if _, err := b.WriteTo(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
		if err := recording.Render(s.diagram(spec), format, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	spec, err := parseSpec(r.Form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	path, err := s.exporter.Export(spec, s.diagram(spec))
	if err != nil {
		ggcircle.Logger().Error("server: export failed", "spec", spec.String(), "err", err)
		http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	id, ok := report.IDOf(path)
	if !ok {
		id = uuid.NewString()
	}
	s.exports.set(id, path)

	q := specValues(spec)
	q.Set(paramExport, id)
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, ok := s.exports.get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.exports.delete(id)
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	http.ServeContent(w, r, report.FileName, info.ModTime(), f)
}

func (s *Server) handleDownloadQR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.exports.get(id); !ok {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(absoluteURL(r, downloadPath(id)), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) diagram(spec ggcircle.CircleSpec) *recording.Recording {
	return plot.Diagram(spec, plot.WithSize(s.cfg.Figure.Width, s.cfg.Figure.Height))
}

func downloadPath(id string) string {
	return "/download/" + url.PathEscape(id)
}

// absoluteURL resolves path against the host the request was sent to, so
// a phone scanning the QR code reaches the same server.
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	return u.String()
}
