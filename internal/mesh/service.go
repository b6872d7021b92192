// Package mesh defines the narrow mesh service the height applicator drives
// and an in-memory implementation of it.
package mesh

import (
	"context"
	"fmt"
	"strings"
)

// Axis selects the coordinate a displacement moves along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// DefaultAxis is the up axis of generated grids.
const DefaultAxis = AxisY

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Valid reports whether a is one of AxisX, AxisY or AxisZ.
func (a Axis) Valid() bool { return a >= AxisX && a <= AxisZ }

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q (want x, y or z)", s)
}

// Handle identifies a mesh owned by a Service.
type Handle string

// VertexHandle addresses one vertex of a mesh.
type VertexHandle struct {
	Mesh  Handle
	Index int
}

func (v VertexHandle) String() string { return fmt.Sprintf("%s.vtx[%d]", v.Mesh, v.Index) }

// Service is the host capability that owns mesh geometry.
//
// CreateGrid builds a flat rectangular plane of width x height world units
// split into colSubdiv x rowSubdiv faces. ListVertices must enumerate its
// (colSubdiv+1)*(rowSubdiv+1) vertices row by row, columns ascending, so the
// vertex at (row, col) is at index row*(colSubdiv+1)+col. DisplaceVertex
// moves one vertex along axis by delta, or to delta when relative is false.
type Service interface {
	CreateGrid(ctx context.Context, width, height float64, colSubdiv, rowSubdiv int) (Handle, error)
	ListVertices(ctx context.Context, h Handle) ([]VertexHandle, error)
	DisplaceVertex(ctx context.Context, v VertexHandle, axis Axis, delta float64, relative bool) error
}
