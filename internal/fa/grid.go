package fa

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// gridShape is the enumeration of a uniform center grid. Center index ci
// and the per-axis subscripts of that center are converted only through
// subscript and index, so feature slots and center positions cannot drift
// apart.
//
// The order is row-major: axis 0 varies slowest, the last axis fastest.
type gridShape struct {
	dims []int
}

func newGridShape(dim, resolution int) gridShape {
	if dim < 1 {
		panic(fmt.Sprintf("fa: grid dimension must be positive, got %d", dim))
	}
	if resolution < 1 {
		panic(fmt.Sprintf("fa: grid resolution must be positive, got %d", resolution))
	}
	dims := make([]int, dim)
	for i := range dims {
		dims[i] = resolution
	}
	return gridShape{dims: dims}
}

// size returns resolution^dim
func (g gridShape) size() int {
	n := 1
	for _, d := range g.dims {
		n *= d
	}
	return n
}

// subscript writes the per-axis segment indices of center ci into sub.
// A nil sub is allocated.
func (g gridShape) subscript(ci int, sub []int) []int {
	return combin.SubFor(sub, ci, g.dims)
}

// index is the inverse of subscript.
func (g gridShape) index(sub []int) int {
	return combin.IdxFor(sub, g.dims)
}

// Segmentation returns resolution evenly spaced values from min to max
// inclusive. A resolution of 1 yields the single value min.
func Segmentation(resolution int, min, max float64) []float64 {
	if resolution < 1 {
		panic(fmt.Sprintf("fa: resolution must be positive, got %d", resolution))
	}
	if !(min < max) {
		panic(fmt.Sprintf("fa: invalid bounds [%v, %v]", min, max))
	}
	seg := make([]float64, resolution)
	if resolution == 1 {
		seg[0] = min
		return seg
	}
	floats.Span(seg, min, max)
	// Span accumulates rounding error; the endpoints must be exactly the bounds.
	seg[0], seg[resolution-1] = min, max
	return seg
}

// BuildCenters returns the resolution^dim centers of a uniform grid over
// [min, max]^dim. Center ci is the Cartesian product tuple at position ci
// when the last coordinate varies fastest.
func BuildCenters(dim, resolution int, min, max float64) []*mat.VecDense {
	shape := newGridShape(dim, resolution)
	return shape.centers(Segmentation(resolution, min, max))
}

func (g gridShape) centers(seg []float64) []*mat.VecDense {
	n := g.size()
	centers := make([]*mat.VecDense, n)
	sub := make([]int, len(g.dims))
	for ci := 0; ci < n; ci++ {
		g.subscript(ci, sub)
		c := mat.NewVecDense(len(g.dims), nil)
		for d, k := range sub {
			c.SetVec(d, seg[k])
		}
		centers[ci] = c
	}
	return centers
}
