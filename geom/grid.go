package geom

import (
	"math"
)

// CartesianGrid overlays a uniform grid of cells of size H (per axis) over
// Bounds. It is the auxiliary support type spec.md §9 calls out as
// intersecting the core: morton-key normalization is the degenerate
// single-cell-per-axis case of this same cell-index arithmetic.
type CartesianGrid struct {
	Bounds Box
	H      []float64
	n      []int
}

// NewCartesianGrid builds a grid over bounds with a uniform cell size h on
// every axis. It panics if h <= 0 or if the resulting per-axis cell count
// would overflow when multiplied together, mirroring the overflow guard in
// ArborX_DetailsCartesianGrid.hpp's buildGrid().
func NewCartesianGrid(bounds Box, h float64) *CartesianGrid {
	dim := bounds.Dim()
	hs := make([]float64, dim)
	for i := range hs {
		hs[i] = h
	}
	return newCartesianGridAxes(bounds, hs)
}

// NewCartesianGridAxes builds a grid with a distinct cell size per axis.
func NewCartesianGridAxes(bounds Box, h []float64) *CartesianGrid {
	return newCartesianGridAxes(bounds, h)
}

func newCartesianGridAxes(bounds Box, h []float64) *CartesianGrid {
	dim := bounds.Dim()
	if len(h) != dim {
		panic("geom: cell size slice must match bounds dimension")
	}
	for _, v := range h {
		if v <= 0 {
			panic("geom: cartesian grid cell size must be positive")
		}
	}

	n := make([]int, dim)
	for d := 0; d < dim; d++ {
		delta := bounds.Max[d] - bounds.Min[d]
		if delta != 0 {
			n[d] = int(math.Ceil(delta / h[d]))
			if n[d] <= 0 {
				panic("geom: cartesian grid has non-positive extent on an axis")
			}
		} else {
			n[d] = 1
		}
	}

	// Conservative overflow guard: bail out if the running product of cell
	// counts would not fit in an int, even though the actual number of
	// occupied cells may never reach that bound.
	m := math.MaxInt64
	for d := 1; d < dim; d++ {
		m /= n[d-1]
		if n[d] >= m {
			panic("geom: cartesian grid cell count overflows the index type")
		}
	}

	return &CartesianGrid{Bounds: bounds, H: h, n: n}
}

// Extent returns the number of cells along axis d.
func (g *CartesianGrid) Extent(d int) int {
	return g.n[d]
}

// CellIndex returns the flat index of the cell containing point.
func (g *CartesianGrid) CellIndex(point Point) int {
	minCorner := g.Bounds.Min
	s := 0
	for d := len(g.n) - 1; d >= 0; d-- {
		i := int(math.Floor((point[d] - minCorner[d]) / g.H[d]))
		s = s*g.n[d] + i
	}
	return s
}

// CellBox returns the bounding box of the cell at cellIndex.
func (g *CartesianGrid) CellBox(cellIndex int) Box {
	dim := len(g.n)
	min := make(Point, dim)
	max := make(Point, dim)
	copy(min, g.Bounds.Min)
	for d := 0; d < dim; d++ {
		i := cellIndex % g.n[d]
		cellIndex /= g.n[d]
		max[d] = min[d] + float64(i+1)*g.H[d]
		min[d] = min[d] + float64(i)*g.H[d]
	}
	return Box{Min: min, Max: max}
}
