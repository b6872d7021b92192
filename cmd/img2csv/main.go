// Command img2csv samples a grayscale copy of an image into a CSV height grid.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/relief/internal/config"
	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/heightgrid"
	"github.com/banshee-data/relief/internal/monitoring"
	"github.com/banshee-data/relief/internal/preview"
	"github.com/banshee-data/relief/internal/sampler"
	"github.com/banshee-data/relief/internal/version"
)

func main() {
	if err := run(os.Args[1:], fsutil.OSFileSystem{}, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("img2csv: %v", err)
	}
}

var errUsage = errors.New("usage error")

func run(args []string, fsys fsutil.FileSystem, stdout io.Writer) error {
	fs := flag.NewFlagSet("img2csv", flag.ContinueOnError)
	fs.SetOutput(stdout)
	in := fs.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	out := fs.String("out", "heights.csv", "output CSV path")
	invert := fs.Bool("invert", false, "map dark pixels to high values")
	width := fs.Int("width", 0, "resample to this width before sampling (0 keeps the image width)")
	height := fs.Int("height", 0, "resample to this height before sampling (0 keeps the image height)")
	configPath := fs.String("config", config.DefaultConfigPath, "path to relief.json")
	dbPath := fs.String("db", "", "record the run in this history database")
	heatmap := fs.String("heatmap", "", "also write a heatmap preview (png, jpg, svg, pdf, eps or tiff by extension)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("img2csv"))
		return nil
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("%w: -in is required", errUsage)
	}
	if *heatmap != "" && preview.FormatFromPath(*heatmap) == "" {
		return fmt.Errorf("%w: -heatmap %s: unsupported image extension", errUsage, *heatmap)
	}

	cfg, err := config.LoadOptional(fsys, *configPath)
	if err != nil {
		return err
	}
	opts := cfg.SamplerOptions()
	history := cfg.GetDBPath()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "invert":
			opts.Invert = *invert
		case "width":
			opts.Width = *width
		case "height":
			opts.Height = *height
		case "db":
			history = *dbPath
		}
	})
	if opts.Width < 0 || opts.Height < 0 {
		return fmt.Errorf("%w: -width and -height must be non-negative", errUsage)
	}

	tracker, err := db.BeginRun(history, &db.Run{
		Kind:       db.KindSample,
		SourcePath: *in,
		OutputPath: *out,
	}, nil)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer tracker.Close()

	g, err := sampler.New(fsys, opts).ImageToCSV(*in, *out)
	summary := heightgrid.Summarize(g)
	tracker.End(err, db.RunResult{
		Rows:       summary.Rows,
		Cols:       summary.Cols,
		RowStep:    1,
		ColStep:    1,
		MinHeight:  summary.Min,
		MaxHeight:  summary.Max,
		MeanHeight: summary.Mean,
	})
	if err != nil {
		return err
	}
	monitoring.Logf("Sampled %s", summary)

	if *heatmap != "" {
		if err := writeHeatmap(fsys, *heatmap, g, *in); err != nil {
			return err
		}
		monitoring.Logf("Heatmap saved at %s", *heatmap)
	}
	return nil
}

func writeHeatmap(fsys fsutil.FileSystem, path string, g heightgrid.Grid, title string) error {
	opts := preview.DefaultHeatmapOptions()
	opts.Title = title
	opts.Format = preview.FormatFromPath(path)

	f, err := fsutil.CreateAll(fsys, path)
	if err != nil {
		return &heightgrid.FileError{Op: "create", Path: path, Err: err}
	}
	if err := preview.WriteHeatmap(f, g, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
