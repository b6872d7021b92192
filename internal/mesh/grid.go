package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a rectangular plane of vertices stored row-major. Rows run along
// -Z and columns along +X, with Y up, centred on the origin.
type Grid struct {
	Width     float64
	Height    float64
	ColSubdiv int
	RowSubdiv int
	Vertices  []r3.Vec
}

// NewGrid lays out a flat grid. A subdivision count of zero collapses that
// axis onto the centre line.
func NewGrid(width, height float64, colSubdiv, rowSubdiv int) *Grid {
	g := &Grid{
		Width:     width,
		Height:    height,
		ColSubdiv: colSubdiv,
		RowSubdiv: rowSubdiv,
		Vertices:  make([]r3.Vec, 0, (colSubdiv+1)*(rowSubdiv+1)),
	}
	for row := 0; row <= rowSubdiv; row++ {
		z := 0.0
		if rowSubdiv > 0 {
			z = height/2 - float64(row)*height/float64(rowSubdiv)
		}
		for col := 0; col <= colSubdiv; col++ {
			x := 0.0
			if colSubdiv > 0 {
				x = -width/2 + float64(col)*width/float64(colSubdiv)
			}
			g.Vertices = append(g.Vertices, r3.Vec{X: x, Y: 0, Z: z})
		}
	}
	return g
}

// Cols returns the number of vertices per row.
func (g *Grid) Cols() int { return g.ColSubdiv + 1 }

// Rows returns the number of vertex rows.
func (g *Grid) Rows() int { return g.RowSubdiv + 1 }

// Index returns the flat vertex index of (row, col).
func (g *Grid) Index(row, col int) int { return row*g.Cols() + col }

// Faces returns the quads of the grid as vertex indices, wound
// counter-clockwise when seen from +Y.
func (g *Grid) Faces() [][4]int {
	faces := make([][4]int, 0, g.ColSubdiv*g.RowSubdiv)
	for row := 0; row < g.RowSubdiv; row++ {
		for col := 0; col < g.ColSubdiv; col++ {
			a := g.Index(row, col)
			b := g.Index(row+1, col)
			c := g.Index(row+1, col+1)
			d := g.Index(row, col+1)
			faces = append(faces, [4]int{a, d, c, b})
		}
	}
	return faces
}

// Component returns the coordinate of v along axis.
func Component(v r3.Vec, axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisZ:
		return v.Z
	}
	return v.Y
}

// Heights returns each vertex's coordinate along axis, in vertex order.
func (g *Grid) Heights(axis Axis) []float64 {
	out := make([]float64, len(g.Vertices))
	for i, v := range g.Vertices {
		out[i] = Component(v, axis)
	}
	return out
}

func move(v r3.Vec, axis Axis, delta float64, relative bool) r3.Vec {
	var step r3.Vec
	switch axis {
	case AxisX:
		if !relative {
			delta -= v.X
		}
		step.X = delta
	case AxisZ:
		if !relative {
			delta -= v.Z
		}
		step.Z = delta
	default:
		if !relative {
			delta -= v.Y
		}
		step.Y = delta
	}
	return r3.Add(v, step)
}
