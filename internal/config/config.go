// Package config loads ggcircle settings from defaults, an optional config
// file and GGCIRCLE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: server.addr is GGCIRCLE_SERVER_ADDR.
const EnvPrefix = "GGCIRCLE"

// Configuration keys.
const (
	KeyServerAddr            = "server.addr"
	KeyServerReadTimeout     = "server.read_timeout"
	KeyServerWriteTimeout    = "server.write_timeout"
	KeyServerShutdownTimeout = "server.shutdown_timeout"
	KeyExportDir             = "export.dir"
	KeyExportMaxAge          = "export.max_age"
	KeyExportSweepInterval   = "export.sweep_interval"
	KeyLogLevel              = "log.level"
	KeyFigureWidth           = "figure.width"
	KeyFigureHeight          = "figure.height"
	KeyFigureCacheSize       = "figure.cache_size"
)

// Config holds all settings.
type Config struct {
	Server ServerConfig
	Export ExportConfig
	Log    LogConfig
	Figure FigureConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ExportConfig configures where PDFs are written and how long they live.
type ExportConfig struct {
	Dir           string
	MaxAge        time.Duration
	SweepInterval time.Duration
}

// LogConfig configures logging.
type LogConfig struct {
	Level slog.Level
}

// FigureConfig sets the diagram size in figure units and how many
// rendered figures the server keeps in memory.
type FigureConfig struct {
	Width     int
	Height    int
	CacheSize int
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerReadTimeout, "10s")
	v.SetDefault(KeyServerWriteTimeout, "30s")
	v.SetDefault(KeyServerShutdownTimeout, "5s")
	v.SetDefault(KeyExportDir, os.TempDir())
	v.SetDefault(KeyExportMaxAge, "1h")
	v.SetDefault(KeyExportSweepInterval, "10m")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFigureWidth, 640)
	v.SetDefault(KeyFigureHeight, 480)
	v.SetDefault(KeyFigureCacheSize, 128)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings. path may be empty; otherwise it names a YAML, TOML
// or JSON file, chosen by extension.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	var errs []error

	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return 0
		}
		if d < 0 {
			errs = append(errs, fmt.Errorf("config: %s: negative duration %s", key, d))
		}
		return d
	}

	cfg.Server = ServerConfig{
		Addr:            v.GetString(KeyServerAddr),
		ReadTimeout:     duration(KeyServerReadTimeout),
		WriteTimeout:    duration(KeyServerWriteTimeout),
		ShutdownTimeout: duration(KeyServerShutdownTimeout),
	}
	cfg.Export = ExportConfig{
		Dir:           v.GetString(KeyExportDir),
		MaxAge:        duration(KeyExportMaxAge),
		SweepInterval: duration(KeyExportSweepInterval),
	}
	if cfg.Export.SweepInterval == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("config: %s must be positive", KeyExportSweepInterval))
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		errs = append(errs, fmt.Errorf("config: %s: %w", KeyLogLevel, err))
	}

	cfg.Figure = FigureConfig{
		Width:     v.GetInt(KeyFigureWidth),
		Height:    v.GetInt(KeyFigureHeight),
		CacheSize: v.GetInt(KeyFigureCacheSize),
	}
	if cfg.Figure.Width <= 0 || cfg.Figure.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid figure size %dx%d", cfg.Figure.Width, cfg.Figure.Height))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
