package preview

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/relief/internal/mesh"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// SurfaceData converts the vertices of g into echarts 3D points. The two
// in-plane axes become the chart's x and y; up becomes the chart's z.
func SurfaceData(g *mesh.Grid, up mesh.Axis) []opts.Chart3DData {
	a, b := planeAxes(up)
	data := make([]opts.Chart3DData, 0, len(g.Vertices))
	for _, v := range g.Vertices {
		data = append(data, opts.Chart3DData{Value: []interface{}{
			mesh.Component(v, a), mesh.Component(v, b), mesh.Component(v, up),
		}})
	}
	return data
}

func planeAxes(up mesh.Axis) (mesh.Axis, mesh.Axis) {
	switch up {
	case mesh.AxisX:
		return mesh.AxisY, mesh.AxisZ
	case mesh.AxisZ:
		return mesh.AxisX, mesh.AxisY
	}
	return mesh.AxisX, mesh.AxisZ
}

// WriteSurface renders g as a self-contained echarts Surface3D page.
func WriteSurface(w io.Writer, g *mesh.Grid, up mesh.Axis, title string) error {
	if len(g.Vertices) == 0 {
		return fmt.Errorf("cannot draw a mesh without vertices")
	}

	heights := g.Heights(up)
	lo, hi := heights[0], heights[0]
	for _, h := range heights[1:] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	if hi <= lo {
		hi = lo + 1
	}
	a, b := planeAxes(up)

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d vertices, up=%s", g.Rows(), g.Cols(), up)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: a.String(), Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: b.String(), Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: up.String(), Show: opts.Bool(true)}),
		charts.WithGrid3DOpts(opts.Grid3D{ViewControl: &opts.ViewControl{AutoRotate: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Dimension:  "2",
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	surface.AddSeries("relief", SurfaceData(g, up))

	if err := surface.Render(w); err != nil {
		return fmt.Errorf("render surface: %w", err)
	}
	return nil
}
