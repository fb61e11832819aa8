package fastmap

import (
	"math"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// residualWeights is the working edge-cost table, one slot per directed edge
// (cell index * 8 + direction).
type residualWeights struct {
	cols int
	w    []float64
}

func newResidualWeights(g *grid.Grid) *residualWeights {
	rw := &residualWeights{
		cols: g.Cols(),
		w:    make([]float64, g.Size()*len(grid.Offsets)),
	}
	for _, u := range g.TraversableNodes() {
		for v := range g.Neighbors(u) {
			rw.w[rw.slot(u, v)] = g.EdgeCost(u, v)
		}
	}
	return rw
}

func (rw *residualWeights) slot(from, to grid.Node) int {
	return from.ToIndex(rw.cols)*len(grid.Offsets) + grid.DirectionIndex(from, to)
}

// cost implements dijkstra.CostFunc over the residual table
func (rw *residualWeights) cost(from, to grid.Node) float64 {
	return rw.w[rw.slot(from, to)]
}

// deflate removes the distance explained by the latest axis from every edge
// whose two endpoints received a coordinate on it, flooring at zero.
func (rw *residualWeights) deflate(g *grid.Grid, axis map[grid.Node]float64) {
	for u, cu := range axis {
		for v := range g.Neighbors(u) {
			cv, ok := axis[v]
			if !ok {
				continue
			}
			s := rw.slot(u, v)
			rw.w[s] = math.Max(0, rw.w[s]-math.Abs(cu-cv))
		}
	}
}
