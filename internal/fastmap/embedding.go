package fastmap

import (
	"math"
	"slices"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// Axis records how one embedding dimension was built
type Axis struct {
	PivotA   grid.Node
	PivotB   grid.Node
	Distance float64 // residual distance between the pivots (dAB)
	Reached  int     // nodes that received a coordinate on this axis
}

// Embedding maps reachable grid nodes to coordinate vectors. It is immutable
// after Build and safe for concurrent readers.
type Embedding struct {
	rows, cols int
	coords     map[grid.Node][]float64
	axes       []Axis
}

func newEmbedding(g *grid.Grid) *Embedding {
	return &Embedding{
		rows:   g.Rows(),
		cols:   g.Cols(),
		coords: make(map[grid.Node][]float64, g.TraversableCount()),
	}
}

// Dims returns the number of axes that were built
func (e *Embedding) Dims() int { return len(e.axes) }

// Len returns how many nodes hold at least one coordinate
func (e *Embedding) Len() int { return len(e.coords) }

// Axes returns a copy of the per-axis build records
func (e *Embedding) Axes() []Axis { return slices.Clone(e.axes) }

// Coordinates returns the vector of n. The slice may be shorter than Dims when
// n was not reached on the last axes; missing entries count as 0. Callers must
// not modify it.
func (e *Embedding) Coordinates(n grid.Node) ([]float64, bool) {
	v, ok := e.coords[n]
	return v, ok
}

// Nodes returns every embedded node in row-major order
func (e *Embedding) Nodes() []grid.Node {
	nodes := make([]grid.Node, 0, len(e.coords))
	for n := range e.coords {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b grid.Node) int {
		return a.ToIndex(e.cols) - b.ToIndex(e.cols)
	})
	return nodes
}

// Distance returns the L1 distance between the vectors of a and b, padding the
// shorter vector with zeros. When either node is not embedded the result is 0.
func (e *Embedding) Distance(a, b grid.Node) float64 {
	va, okA := e.coords[a]
	vb, okB := e.coords[b]
	if !okA || !okB {
		return 0
	}
	n := max(len(va), len(vb))
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(component(va, i) - component(vb, i))
	}
	return sum
}

func component(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// set appends coordinate c on axis k, zero-filling axes n never reached
func (e *Embedding) set(n grid.Node, k int, c float64) {
	v := e.coords[n]
	for len(v) < k {
		v = append(v, 0)
	}
	e.coords[n] = append(v, c)
}
