// Command csv2mesh builds a displaced plane from a CSV height grid and
// writes it as a Wavefront OBJ mesh.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/banshee-data/relief/internal/applicator"
	"github.com/banshee-data/relief/internal/config"
	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/heightgrid"
	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/monitoring"
	"github.com/banshee-data/relief/internal/preview"
	"github.com/banshee-data/relief/internal/version"
)

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], fsutil.OSFileSystem{}, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("csv2mesh: %v", err)
	}
}

func run(ctx context.Context, args []string, fsys fsutil.FileSystem, stdout io.Writer) error {
	def := applicator.DefaultParams()

	fs := flag.NewFlagSet("csv2mesh", flag.ContinueOnError)
	fs.SetOutput(stdout)
	in := fs.String("in", "", "input CSV height grid")
	out := fs.String("out", "mesh.obj", "output OBJ path")
	name := fs.String("name", "", "object name written to the OBJ file (default: derived from -in)")
	size := fs.Float64("size", def.PlaneSize, "plane width and depth in world units")
	density := fs.Int("density", def.Density, "target samples per axis when downsampling")
	multiplier := fs.Float64("multiplier", def.HeightMultiplier, "scale applied to every height")
	highRes := fs.Bool("highres", def.HighRes, "use every CSV cell as a vertex")
	axis := fs.String("axis", def.Axis.String(), "displacement axis: x, y or z")
	surface := fs.String("surface", "", "also write an interactive 3D surface preview (HTML)")
	configPath := fs.String("config", config.DefaultConfigPath, "path to relief.json")
	dbPath := fs.String("db", "", "record the run in this history database")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("csv2mesh"))
		return nil
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	cfg, err := config.LoadOptional(fsys, *configPath)
	if err != nil {
		return err
	}
	p := cfg.ApplyParams()
	history := cfg.GetDBPath()
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			p.PlaneSize = *size
		case "density":
			p.Density = *density
		case "multiplier":
			p.HeightMultiplier = *multiplier
		case "highres":
			p.HighRes = *highRes
		case "axis":
			p.Axis, flagErr = mesh.ParseAxis(*axis)
		case "db":
			history = *dbPath
		}
	})
	if flagErr != nil {
		return fmt.Errorf("%w: %v", errUsage, flagErr)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	tracker, err := db.BeginRun(history, &db.Run{
		Kind:             db.KindApply,
		SourcePath:       *in,
		OutputPath:       *out,
		HighRes:          p.HighRes,
		HeightMultiplier: p.HeightMultiplier,
	}, nil)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer tracker.Close()

	if *name == "" {
		*name = mesh.ObjectName(*in)
	}

	svc := mesh.NewMemoryService()
	res, err := build(ctx, fsys, svc, *in, *out, *name, p)
	tracker.End(err, runResult(res))
	if err != nil {
		return err
	}
	monitoring.Logf("Applied %dx%d heights (stride %s, %s) to %s", res.Rows, res.Cols, res.Stride, res.Summary, *out)

	if *surface != "" {
		g, _ := svc.Mesh(res.Handle)
		if err := writeSurface(fsys, *surface, g, p.Axis, *in); err != nil {
			return err
		}
		monitoring.Logf("Surface preview saved at %s", *surface)
	}
	return nil
}

func build(ctx context.Context, fsys fsutil.FileSystem, svc *mesh.MemoryService, in, out, name string, p applicator.Params) (*applicator.Result, error) {
	res, err := applicator.ApplyCSV(ctx, fsys, svc, in, p)
	if err != nil {
		return nil, err
	}
	g, ok := svc.Mesh(res.Handle)
	if !ok {
		return nil, fmt.Errorf("mesh %s disappeared", res.Handle)
	}

	f, err := fsutil.CreateAll(fsys, out)
	if err != nil {
		return nil, &heightgrid.FileError{Op: "create", Path: out, Err: err}
	}
	if err := mesh.WriteOBJ(f, g, name); err != nil {
		f.Close()
		return nil, &heightgrid.FileError{Op: "write", Path: out, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &heightgrid.FileError{Op: "write", Path: out, Err: err}
	}
	return res, nil
}

func runResult(res *applicator.Result) db.RunResult {
	if res == nil {
		return db.RunResult{}
	}
	return db.RunResult{
		Rows:        res.Rows,
		Cols:        res.Cols,
		RowStep:     res.Stride.Row,
		ColStep:     res.Stride.Col,
		VertexCount: res.Vertices,
		MinHeight:   res.Summary.Min,
		MaxHeight:   res.Summary.Max,
		MeanHeight:  res.Summary.Mean,
	}
}

func writeSurface(fsys fsutil.FileSystem, path string, g *mesh.Grid, axis mesh.Axis, title string) error {
	f, err := fsutil.CreateAll(fsys, path)
	if err != nil {
		return &heightgrid.FileError{Op: "create", Path: path, Err: err}
	}
	if err := preview.WriteSurface(f, g, axis, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
