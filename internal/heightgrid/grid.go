// Package heightgrid holds the row-major height grid exchanged between the
// image sampler and the mesh applicator, together with its CSV encoding and
// the uniform-stride downsampling used to keep generated meshes small.
package heightgrid

import "fmt"

// Grid is a row-major grid of height values. A well-formed grid is
// rectangular: every row has the same number of columns as row 0.
type Grid [][]float64

// New allocates a zeroed rows x cols grid.
func New(rows, cols int) Grid {
	if rows <= 0 || cols <= 0 {
		return Grid{}
	}
	backing := make([]float64, rows*cols)
	g := make(Grid, rows)
	for r := range g {
		g[r] = backing[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the column count fixed by row 0, or 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Cells returns Rows()*Cols(), the vertex count a matching mesh must have.
func (g Grid) Cells() int { return g.Rows() * g.Cols() }

// At returns the value at (row, col).
func (g Grid) At(row, col int) float64 { return g[row][col] }

// IsRectangular reports whether every row matches the width of row 0.
func (g Grid) IsRectangular() bool { return g.Validate() == nil }

// Validate returns a *ShapeError for the first row whose width differs from
// row 0. An empty grid is valid.
func (g Grid) Validate() error {
	cols := g.Cols()
	for r, row := range g {
		if len(row) != cols {
			return &ShapeError{Row: r, Got: len(row), Want: cols}
		}
	}
	return nil
}

// Flatten returns the values in row-major order.
func (g Grid) Flatten() []float64 {
	out := make([]float64, 0, g.Cells())
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// Stride is the uniform step taken along each axis when downsampling.
// Both steps are always at least 1.
type Stride struct {
	Row int
	Col int
}

// Unit is the identity stride; downsampling with it keeps every cell.
var Unit = Stride{Row: 1, Col: 1}

func (s Stride) String() string { return fmt.Sprintf("%dx%d", s.Row, s.Col) }

// StrideFor computes the step per axis that leaves roughly density samples
// along it: max(total/density, 1) with integer division. A non-positive
// density is treated as 1.
func StrideFor(rows, cols, density int) Stride {
	if density < 1 {
		density = 1
	}
	return Stride{
		Row: max(rows/density, 1),
		Col: max(cols/density, 1),
	}
}

// Downsample keeps every s.Row-th row and every s.Col-th column starting at
// index 0. No interpolation is done. The column positions are taken from the
// width of row 0; a shorter row contributes only the positions it has, so a
// jagged grid stays jagged and is caught by Validate.
func (g Grid) Downsample(s Stride) Grid {
	s.Row = max(s.Row, 1)
	s.Col = max(s.Col, 1)

	cols := g.Cols()
	out := make(Grid, 0, ceilDiv(g.Rows(), s.Row))
	for r := 0; r < g.Rows(); r += s.Row {
		src := g[r]
		row := make([]float64, 0, ceilDiv(cols, s.Col))
		for c := 0; c < cols && c < len(src); c += s.Col {
			row = append(row, src[c])
		}
		out = append(out, row)
	}
	return out
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
