package applicator

import (
	"errors"
	"fmt"
)

// ErrEmptyGrid is returned when there are no heights to apply.
var ErrEmptyGrid = errors.New("height grid is empty")

// DimensionMismatchError reports a mesh whose vertex count does not match the
// grid it was built for. No vertex is displaced when it is returned.
type DimensionMismatchError struct {
	Expected    int
	Got         int
	Rows        int
	Cols        int
	Downsampled bool
}

func (e *DimensionMismatchError) Error() string {
	what := "CSV"
	if e.Downsampled {
		what = "downsampled"
	}
	return fmt.Sprintf("%s data dimensions %dx%d do not match the plane's subdivisions: want %d vertices, got %d",
		what, e.Rows, e.Cols, e.Expected, e.Got)
}
