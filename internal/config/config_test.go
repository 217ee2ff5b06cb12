package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"read timeout", cfg.Server.ReadTimeout, 10 * time.Second},
		{"write timeout", cfg.Server.WriteTimeout, 30 * time.Second},
		{"shutdown timeout", cfg.Server.ShutdownTimeout, 5 * time.Second},
		{"max age", cfg.Export.MaxAge, time.Hour},
		{"sweep interval", cfg.Export.SweepInterval, 10 * time.Minute},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Export.Dir != os.TempDir() {
		t.Errorf("Export.Dir = %q, want %q", cfg.Export.Dir, os.TempDir())
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("Log.Level = %v, want INFO", cfg.Log.Level)
	}
	if cfg.Figure.Width != 640 || cfg.Figure.Height != 480 {
		t.Errorf("Figure = %dx%d, want 640x480", cfg.Figure.Width, cfg.Figure.Height)
	}
	if cfg.Figure.CacheSize != 128 {
		t.Errorf("Figure.CacheSize = %d, want 128", cfg.Figure.CacheSize)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ggcircle.yaml")
	data := `
server:
  addr: 127.0.0.1:9000
export:
  max_age: 30m
log:
  level: debug
figure:
  width: 800
  height: 600
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Export.MaxAge != 30*time.Minute {
		t.Errorf("Export.MaxAge = %v, want 30m", cfg.Export.MaxAge)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("Log.Level = %v, want DEBUG", cfg.Log.Level)
	}
	if cfg.Figure.Width != 800 || cfg.Figure.Height != 600 {
		t.Errorf("Figure = %dx%d, want 800x600", cfg.Figure.Width, cfg.Figure.Height)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("unset keys should keep defaults, ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GGCIRCLE_SERVER_ADDR", ":9999")
	t.Setenv("GGCIRCLE_EXPORT_DIR", "/srv/exports")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Export.Dir != "/srv/exports" {
		t.Errorf("Export.Dir = %q, want /srv/exports", cfg.Export.Dir)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad duration", map[string]string{"GGCIRCLE_SERVER_READ_TIMEOUT": "soon"}, KeyServerReadTimeout},
		{"negative duration", map[string]string{"GGCIRCLE_EXPORT_MAX_AGE": "-1h"}, KeyExportMaxAge},
		{"bad level", map[string]string{"GGCIRCLE_LOG_LEVEL": "loud"}, KeyLogLevel},
		{"zero sweep", map[string]string{"GGCIRCLE_EXPORT_SWEEP_INTERVAL": "0s"}, KeyExportSweepInterval},
		{"bad figure", map[string]string{"GGCIRCLE_FIGURE_WIDTH": "0"}, "figure size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
