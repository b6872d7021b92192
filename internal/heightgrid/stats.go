package heightgrid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of heights in a grid.
type Summary struct {
	Rows   int
	Cols   int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes min, max, mean and sample standard deviation over every
// cell. An empty grid yields a zero Summary.
func Summarize(g Grid) Summary {
	s := Summary{Rows: g.Rows(), Cols: g.Cols()}
	values := g.Flatten()
	if len(values) == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%dx%d min=%.4f max=%.4f mean=%.4f±%.4f",
		s.Rows, s.Cols, s.Min, s.Max, s.Mean, s.StdDev)
}
