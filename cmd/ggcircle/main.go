// Command ggcircle draws a circle with evenly spaced points.
//
// Usage:
//
//	ggcircle [-config file] [serve]
//	ggcircle [-config file] export [-o circle.pdf] [-cx 0] [-cy 0] [-r 5] [-n 12] [-color #FF0000]
//	ggcircle [-config file] render [-o circle.png|circle.svg] [-scale 1] [circle flags]
//
// serve starts the web form. export writes the two-page PDF; without -o it
// goes to a new file in the configured export directory. render writes the
// diagram alone as PNG or SVG, chosen by the file extension.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/ggcircle"
	"github.com/gogpu/ggcircle/internal/config"
	"github.com/gogpu/ggcircle/internal/server"
	"github.com/gogpu/ggcircle/plot"
	"github.com/gogpu/ggcircle/recording"
	"github.com/gogpu/ggcircle/recording/backends/raster"
	"github.com/gogpu/ggcircle/recording/backends/svg"
	"github.com/gogpu/ggcircle/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("ggcircle: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ggcircle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (YAML, TOML or JSON)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	ggcircle.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	})))

	cmd, rest := "serve", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}
	switch cmd {
	case "serve":
		return serve(ctx, cfg)
	case "export":
		return export(cfg, rest, stdout, stderr)
	case "render":
		return render(cfg, rest, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q (want serve, export or render)", cmd)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	s, err := server.New(cfg)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// circleFlags registers the circle parameters on fs and returns a function
// that builds the spec after parsing.
func circleFlags(fs *flag.FlagSet) func() ggcircle.CircleSpec {
	def := ggcircle.DefaultCircleSpec()
	cx := fs.Float64("cx", def.Center.X, "center X")
	cy := fs.Float64("cy", def.Center.Y, "center Y")
	r := fs.Float64("r", def.Radius, "radius in meters")
	n := fs.Int("n", def.PointCount, "number of points")
	color := fs.String("color", def.PointColor, "point color")
	return func() ggcircle.CircleSpec {
		return ggcircle.CircleSpec{
			Center:     r2.Vec{X: *cx, Y: *cy},
			Radius:     *r,
			PointCount: *n,
			PointColor: *color,
		}
	}
}

func export(cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "output PDF (default: new file in the export directory)")
	spec := circleFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := spec()
	fig := plot.Diagram(s, plot.WithSize(cfg.Figure.Width, cfg.Figure.Height))
	exporter := report.NewExporter(cfg.Export.Dir)

	path := *out
	if path == "" {
		p, err := exporter.Export(s, fig)
		if err != nil {
			return err
		}
		path = p
	} else if err := exporter.ExportTo(path, s, fig); err != nil {
		return err
	}
	_, err := fmt.Fprintln(stdout, path)
	return err
}

func render(cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "circle.png", "output file, .png or .svg")
	scale := fs.Float64("scale", 1, "pixel scale for PNG output")
	spec := circleFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var backend recording.FileBackend
	switch ext := strings.ToLower(filepath.Ext(*out)); ext {
	case ".png":
		backend = raster.NewBackend(raster.WithScale(*scale))
	case ".svg":
		backend = svg.NewBackend(svg.WithTitle(plot.DefaultTitle))
	default:
		return fmt.Errorf("render: unsupported output type %q", ext)
	}

	fig := plot.Diagram(spec(), plot.WithSize(cfg.Figure.Width, cfg.Figure.Height))
	if err := fig.Playback(backend); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := backend.SaveToFile(*out); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err := fmt.Fprintln(stdout, *out)
	return err
}
