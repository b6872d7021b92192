// Package preview renders height grids and displaced meshes for inspection:
// a static heatmap image and an interactive 3D surface page.
package preview

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/relief/internal/heightgrid"
)

// HeatmapOptions controls the rendered image.
type HeatmapOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// Format is any format accepted by plot.WriterTo: png, jpg, svg, pdf...
	Format string
	Colors int
}

// DefaultHeatmapOptions renders a 6 inch square PNG.
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Width:  6 * vg.Inch,
		Height: 6 * vg.Inch,
		Format: "png",
		Colors: 32,
	}
}

// FormatFromPath returns the image format implied by the extension of path,
// or "" when plot cannot write it.
func FormatFromPath(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff":
		return ext
	}
	return ""
}

// gridXYZ adapts a height grid to plotter.GridXYZ. Plot rows run upwards, so
// grid row 0 is drawn at the top like the source image.
type gridXYZ struct {
	g heightgrid.Grid
}

func (g gridXYZ) Dims() (c, r int)   { return g.g.Cols(), g.g.Rows() }
func (g gridXYZ) Z(c, r int) float64 { return g.g[g.g.Rows()-1-r][c] }
func (g gridXYZ) X(c int) float64    { return float64(c) }
func (g gridXYZ) Y(r int) float64    { return float64(r) }

// WriteHeatmap draws g as a heatmap and writes the encoded image to w.
func WriteHeatmap(w io.Writer, g heightgrid.Grid, opts HeatmapOptions) error {
	if g.Rows() == 0 || g.Cols() == 0 {
		return fmt.Errorf("cannot draw an empty grid")
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if opts.Colors < 2 {
		opts.Colors = 2
	}

	hm := plotter.NewHeatMap(gridXYZ{g}, palette.Heat(opts.Colors, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row (flipped)"
	p.Add(hm)

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("heatmap writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}
