package server

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/internal/config"
	"github.com/gogpu/ggcircle/report"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Export.Dir = t.TempDir()
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, s.Routes()
}

func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexDefaults(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`name="cx" type="number" step="any" value="0"`,
		`name="r" type="number" step="any" min="1" value="5"`,
		`type="range" min="3" max="100" value="12"`,
		`type="color" value="#FF0000"`,
		"Generate PDF",
		"<svg",
		"Circle with points",
		"<h3>About</h3>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "<?xml") {
		t.Error("inline SVG should not carry an XML declaration")
	}
	if strings.Contains(body, "Download PDF") {
		t.Error("download link shown before export")
	}
}

func TestIndexParams(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/?cx=2&cy=-1.5&r=3&n=7&color=%2300ff00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`value="2"`, `value="-1.5"`, `value="3"`, `value="7"`, `value="#00ff00"`, "fill:#00ff00"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestBadRequests(t *testing.T) {
	_, h := newTestServer(t)
	for _, target := range []string{
		"/?r=abc",
		"/?n=many",
		"/?cx=NaN",
		"/?color=red",
		"/figure.svg?cy=Inf",
		"/figure.png?r=1e999",
	} {
		if rec := do(h, http.MethodGet, target, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestParseSpecClamps(t *testing.T) {
	tests := []struct {
		query  string
		radius float64
		count  int
	}{
		{"r=0.2&n=1", 1, 3},
		{"r=-4&n=500", 1, 100},
		{"r=9&n=50", 9, 50},
		{"", 5, 12},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		spec, err := parseSpec(q)
		if err != nil {
			t.Fatalf("parseSpec(%q) failed: %v", tt.query, err)
		}
		if spec.Radius != tt.radius || spec.PointCount != tt.count {
			t.Errorf("parseSpec(%q) = r %v n %d, want r %v n %d",
				tt.query, spec.Radius, spec.PointCount, tt.radius, tt.count)
		}
	}
}

func TestSpecValuesRoundTrip(t *testing.T) {
	q, _ := url.ParseQuery("cx=1.25&cy=-3&r=4&n=9&color=%23123456")
	spec, err := parseSpec(q)
	if err != nil {
		t.Fatal(err)
	}
	again, err := parseSpec(specValues(spec))
	if err != nil {
		t.Fatal(err)
	}
	if again != spec {
		t.Errorf("parseSpec(specValues(%v)) = %v", spec, again)
	}
}

func TestFigureSVG(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/figure.svg?n=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.Count(rec.Body.String(), "fill:#ff0000;stroke:none"); got != 5 {
		t.Errorf("SVG has %d markers, want 5", got)
	}
}

func TestFigureSVGGzip(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/figure.svg", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ce := rec.Header().Get("Content-Encoding"); ce != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", ce)
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader failed: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading gzip body failed: %v", err)
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Error("decompressed body is not an SVG document")
	}
}

func TestFigurePNG(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/figure.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("PNG size = %dx%d, want 640x480", b.Dx(), b.Dy())
	}
}

func exportAndFollow(t *testing.T, s *Server, h http.Handler, form string) (id string) {
	t.Helper()
	rec := do(h, http.MethodPost, "/export", strings.NewReader(form))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /export status = %d, want 303: %s", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	id = loc.Query().Get(paramExport)
	if id == "" {
		t.Fatalf("redirect %s has no export id", loc)
	}

	page := do(h, http.MethodGet, loc.String(), nil)
	if !strings.Contains(page.Body.String(), "Download PDF") {
		t.Error("page after export missing download link")
	}
	if !strings.Contains(page.Body.String(), "/download/"+id+"/qr.png") {
		t.Error("page after export missing QR code")
	}
	return id
}

func TestExportAndDownload(t *testing.T) {
	s, h := newTestServer(t)
	id := exportAndFollow(t, s, h, "cx=1&cy=2&r=3&n=4&color=%230000ff")

	rec := do(h, http.MethodGet, "/download/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != report.MediaType {
		t.Errorf("Content-Type = %q, want %q", ct, report.MediaType)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="circle.pdf"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("download is not a PDF")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("%%EOF")) {
		t.Error("download is truncated")
	}

	qr := do(h, http.MethodGet, "/download/"+id+"/qr.png", nil)
	if qr.Code != http.StatusOK {
		t.Fatalf("qr status = %d, want 200", qr.Code)
	}
	if _, err := png.Decode(qr.Body); err != nil {
		t.Errorf("QR code is not a PNG: %v", err)
	}
}

func TestExportsAreUnique(t *testing.T) {
	s, h := newTestServer(t)
	a := exportAndFollow(t, s, h, "r=2")
	b := exportAndFollow(t, s, h, "r=2")
	if a == b {
		t.Errorf("two exports share id %s", a)
	}
	pa, _ := s.exports.get(a)
	pb, _ := s.exports.get(b)
	if pa == pb {
		t.Errorf("two exports share path %s", pa)
	}
}

func TestExportBadRequest(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodPost, "/export", strings.NewReader("r=wide"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportFailure(t *testing.T) {
	s, h := newTestServer(t)
	s.exporter.Dir = filepath.Join(t.TempDir(), "gone")
	rec := do(h, http.MethodPost, "/export", strings.NewReader("r=2"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "export failed") {
		t.Errorf("body %q does not surface the error", rec.Body.String())
	}
}

func TestDownloadUnknown(t *testing.T) {
	_, h := newTestServer(t)
	for _, target := range []string{"/download/nope", "/download/nope/qr.png"} {
		if rec := do(h, http.MethodGet, target, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", target, rec.Code)
		}
	}
	rec := do(h, http.MethodGet, "/?export=nope", nil)
	if !strings.Contains(rec.Body.String(), "no longer available") {
		t.Error("unknown export id should be reported on the page")
	}
}

func TestDownloadSwept(t *testing.T) {
	s, h := newTestServer(t)
	id := exportAndFollow(t, s, h, "")
	path, _ := s.exports.get(id)
	old := time.Now().Add(-2 * s.cfg.Export.MaxAge)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	s.sweep()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale export not removed")
	}
	if s.exports.len() != 0 {
		t.Errorf("store still holds %d ids", s.exports.len())
	}
	if rec := do(h, http.MethodGet, "/download/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("download of swept export status = %d, want 404", rec.Code)
	}
}

func TestSweepLogsTracked(t *testing.T) {
	var buf bytes.Buffer
	ggcircle.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { ggcircle.SetLogger(nil) })

	s, h := newTestServer(t)
	stale := exportAndFollow(t, s, h, "")
	exportAndFollow(t, s, h, "")
	path, _ := s.exports.get(stale)
	old := time.Now().Add(-2 * s.cfg.Export.MaxAge)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	s.sweep()

	out := buf.String()
	if !strings.Contains(out, "server: sweep done") {
		t.Fatalf("no sweep record in log:\n%s", out)
	}
	for _, want := range []string{"removed=1", "forgotten=1", "tracked=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("sweep log missing %q:\n%s", want, out)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(h, http.MethodGet, "/export", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /export status = %d, want 405", rec.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/figure.svg")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestFigureCache(t *testing.T) {
	s, h := newTestServer(t)
	first := do(h, http.MethodGet, "/figure.svg?r=4", nil)
	second := do(h, http.MethodGet, "/figure.svg?r=4.0", nil)
	if first.Body.String() != second.Body.String() {
		t.Error("same parameters rendered differently")
	}
	st := s.figures.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("cache stats = %+v, want 1 hit and 1 miss", st)
	}

	do(h, http.MethodGet, "/?r=4", nil)
	if s.figures.Len() != 2 {
		t.Errorf("cache holds %d figures, want 2 (file and inline SVG)", s.figures.Len())
	}
}
