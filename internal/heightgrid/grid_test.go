package heightgrid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqGrid(rows, cols int) Grid {
	g := New(rows, cols)
	for r := range g {
		for c := range g[r] {
			g[r][c] = float64(r*cols + c)
		}
	}
	return g
}

func TestNew(t *testing.T) {
	t.Parallel()

	g := New(3, 4)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Cols())
	assert.Equal(t, 12, g.Cells())
	assert.True(t, g.IsRectangular())

	// Rows share a backing array but must not overlap.
	g[0] = append(g[0], 99)
	assert.Equal(t, 0.0, g[1][0])

	assert.Equal(t, 0, New(0, 5).Rows())
	assert.Equal(t, 0, New(5, -1).Cols())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Grid{}.Validate())
	require.NoError(t, Grid{{1, 2}, {3, 4}}.Validate())

	err := Grid{{1, 2}, {3, 4}, {5}}.Validate()
	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, ShapeError{Row: 2, Got: 1, Want: 2}, *shape)
	assert.Contains(t, err.Error(), "row 2 has 1 columns, want 2")
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	got := Grid{{0, 0.5}, {1, 0.25}}.Flatten()
	assert.Equal(t, []float64{0, 0.5, 1, 0.25}, got)
}

func TestStrideFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		rows, cols, density int
		want                Stride
	}{
		{"density one collapses to first cell", 4, 4, 1, Stride{4, 4}},
		{"density above size keeps everything", 10, 20, 50, Stride{1, 1}},
		{"integer division", 100, 250, 50, Stride{2, 5}},
		{"uneven axes", 7, 3, 2, Stride{3, 1}},
		{"zero density treated as one", 6, 6, 0, Stride{6, 6}},
		{"empty grid", 0, 0, 5, Stride{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrideFor(tt.rows, tt.cols, tt.density))
		})
	}
}

func TestStrideFor_AlwaysPositive(t *testing.T) {
	t.Parallel()

	for rows := 1; rows <= 40; rows++ {
		for cols := 1; cols <= 40; cols += 3 {
			for density := 1; density <= 45; density += 4 {
				s := StrideFor(rows, cols, density)
				if s.Row < 1 || s.Col < 1 {
					t.Fatalf("StrideFor(%d,%d,%d) = %v, want both >= 1", rows, cols, density, s)
				}
			}
		}
	}
}

func TestDownsample_DensityOne(t *testing.T) {
	t.Parallel()

	g := seqGrid(4, 4)
	s := StrideFor(g.Rows(), g.Cols(), 1)
	require.Equal(t, Stride{4, 4}, s)

	got := g.Downsample(s)
	if diff := cmp.Diff(Grid{{0}}, got); diff != "" {
		t.Errorf("Downsample mismatch (-want +got):\n%s", diff)
	}
}

func TestDownsample_Strided(t *testing.T) {
	t.Parallel()

	g := seqGrid(5, 7)
	got := g.Downsample(Stride{Row: 2, Col: 3})
	want := Grid{
		{0, 3, 6},
		{14, 17, 20},
		{28, 31, 34},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Downsample mismatch (-want +got):\n%s", diff)
	}
}

func TestDownsample_UnitIsCopy(t *testing.T) {
	t.Parallel()

	g := seqGrid(3, 2)
	got := g.Downsample(Unit)
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("Downsample(Unit) mismatch (-want +got):\n%s", diff)
	}
	got[0][0] = 42
	assert.Equal(t, 0.0, g[0][0], "downsampled grid must not alias its source")
}

func TestDownsample_ShapeInvariant(t *testing.T) {
	t.Parallel()

	for rows := 1; rows <= 25; rows++ {
		for cols := 1; cols <= 25; cols += 2 {
			g := seqGrid(rows, cols)
			for density := 1; density <= 12; density++ {
				s := StrideFor(rows, cols, density)
				d := g.Downsample(s)

				wantRows := (rows + s.Row - 1) / s.Row
				wantCols := (cols + s.Col - 1) / s.Col
				if d.Rows() != wantRows || d.Cols() != wantCols {
					t.Fatalf("%dx%d density %d: got %dx%d, want %dx%d",
						rows, cols, density, d.Rows(), d.Cols(), wantRows, wantCols)
				}
				if !d.IsRectangular() {
					t.Fatalf("%dx%d density %d: downsampled grid is not rectangular", rows, cols, density)
				}
				if d[0][0] != g[0][0] {
					t.Fatalf("downsampling must start at index 0")
				}
			}
		}
	}
}

func TestDownsample_JaggedStaysJagged(t *testing.T) {
	t.Parallel()

	g := Grid{{1, 2, 3, 4}, {5, 6}, {7, 8, 9, 10}}
	got := g.Downsample(Stride{Row: 1, Col: 2})
	assert.Equal(t, Grid{{1, 3}, {5}, {7, 9}}, got)
	assert.Error(t, got.Validate())
}

func TestDownsample_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Grid{}.Downsample(Stride{3, 3}))
}
