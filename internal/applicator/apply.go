// Package applicator turns a height grid into a displaced plane on a mesh
// service.
package applicator

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/heightgrid"
	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/monitoring"
)

// Params controls how a grid is mapped onto a plane.
type Params struct {
	// PlaneSize is the width and depth of the square plane in world units.
	PlaneSize float64
	// Density is the target number of samples per axis when downsampling.
	// It is ignored when HighRes is set.
	Density int
	// HeightMultiplier scales every height before displacement.
	HeightMultiplier float64
	// HighRes uses every grid cell as a vertex.
	HighRes bool
	// Axis is the direction vertices are moved along.
	Axis mesh.Axis
}

// DefaultParams returns the defaults of the plane generator panel.
func DefaultParams() Params {
	return Params{
		PlaneSize:        10,
		Density:          50,
		HeightMultiplier: 10.0,
		HighRes:          false,
		Axis:             mesh.DefaultAxis,
	}
}

// Validate checks p for values that cannot produce a plane.
func (p Params) Validate() error {
	var errs []error
	if p.PlaneSize <= 0 {
		errs = append(errs, fmt.Errorf("plane size must be positive, got %g", p.PlaneSize))
	}
	if !p.HighRes && p.Density <= 0 {
		errs = append(errs, fmt.Errorf("density must be positive, got %d", p.Density))
	}
	if !p.Axis.Valid() {
		errs = append(errs, fmt.Errorf("invalid axis %v", p.Axis))
	}
	return errors.Join(errs...)
}

// Result describes the plane Apply built.
type Result struct {
	Handle      mesh.Handle
	Rows        int
	Cols        int
	Stride      heightgrid.Stride
	Vertices    int
	Downsampled bool
	Summary     heightgrid.Summary
}

// Apply builds a plane on svc sized to g (downsampled unless p.HighRes) and
// moves vertex row*cols+col by g[row][col]*p.HeightMultiplier along p.Axis,
// relative to its current position.
//
// If the plane does not have exactly rows*cols vertices a
// *DimensionMismatchError is returned and the plane is left flat. A jagged
// grid is rejected with *heightgrid.ShapeError before any plane is created.
func Apply(ctx context.Context, svc mesh.Service, g heightgrid.Grid, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if g.Rows() == 0 || g.Cols() == 0 {
		return nil, ErrEmptyGrid
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	target, stride := g, heightgrid.Unit
	if !p.HighRes {
		stride = heightgrid.StrideFor(g.Rows(), g.Cols(), p.Density)
		target = g.Downsample(stride)
	}

	rows, cols := target.Rows(), target.Cols()
	h, err := svc.CreateGrid(ctx, p.PlaneSize, p.PlaneSize, cols-1, rows-1)
	if err != nil {
		return nil, fmt.Errorf("create %dx%d plane: %w", rows, cols, err)
	}
	verts, err := svc.ListVertices(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("list vertices of %s: %w", h, err)
	}

	if len(verts) != rows*cols {
		mismatch := &DimensionMismatchError{
			Expected:    rows * cols,
			Got:         len(verts),
			Rows:        rows,
			Cols:        cols,
			Downsampled: !p.HighRes,
		}
		monitoring.Warnf("%v", mismatch)
		return nil, mismatch
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := verts[row*cols+col]
			delta := target[row][col] * p.HeightMultiplier
			if err := svc.DisplaceVertex(ctx, v, p.Axis, delta, true); err != nil {
				return nil, fmt.Errorf("displace vertex %d (row %d, col %d): %w", v.Index, row, col, err)
			}
		}
	}

	return &Result{
		Handle:      h,
		Rows:        rows,
		Cols:        cols,
		Stride:      stride,
		Vertices:    len(verts),
		Downsampled: !p.HighRes,
		Summary:     heightgrid.Summarize(target),
	}, nil
}

// ApplyCSV reads the grid at path from fsys and applies it. File and parse
// failures are returned as *heightgrid.FileError and *heightgrid.ParseError.
func ApplyCSV(ctx context.Context, fsys fsutil.FileSystem, svc mesh.Service, path string, p Params) (*Result, error) {
	g, err := heightgrid.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Apply(ctx, svc, g, p)
}
