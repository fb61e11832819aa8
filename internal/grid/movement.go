package grid

import (
	"fmt"
	"iter"
	"math"
)

// Offsets lists neighbor offsets in canonical order: the four orthogonal
// directions first (N, S, W, E), then the diagonals (NW, NE, SW, SE).
var Offsets = [8]Node{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: -1, Col: -1},
	{Row: -1, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 1},
}

const orthogonalOffsets = 4

// DirectionIndex returns the position of to-from in Offsets, or -1 when the
// two nodes are not adjacent.
func DirectionIndex(from, to Node) int {
	d := to.Sub(from)
	for i, off := range Offsets {
		if off == d {
			return i
		}
	}
	return -1
}

// Neighbors yields the cells reachable from n in one move. A diagonal move is
// only offered when both orthogonal cells it passes between are open, so paths
// never cut a blocked corner. The sequence is empty for non-traversable n.
func (g *Grid) Neighbors(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if !g.IsTraversable(n) {
			return
		}
		for i := 0; i < int(g.conn); i++ {
			off := Offsets[i]
			next := n.Add(off)
			if !g.IsTraversable(next) {
				continue
			}
			if i >= orthogonalOffsets && !g.cornersOpen(n, off) {
				continue
			}
			if !yield(next) {
				return
			}
		}
	}
}

func (g *Grid) cornersOpen(n, diag Node) bool {
	return g.IsTraversable(Node{Row: n.Row + diag.Row, Col: n.Col}) &&
		g.IsTraversable(Node{Row: n.Row, Col: n.Col + diag.Col})
}

// CanMove reports whether to is one of the neighbors of from
func (g *Grid) CanMove(from, to Node) bool {
	for next := range g.Neighbors(from) {
		if next == to {
			return true
		}
	}
	return false
}

// EdgeCost returns 1 for an orthogonal step and √2 for a diagonal one.
// Calling it for a pair that is not adjacent is a programming error.
func (g *Grid) EdgeCost(from, to Node) float64 {
	if !from.IsAdjacentTo(to) {
		panic(fmt.Sprintf("grid: no edge between %s and %s", from, to))
	}
	if from.IsDiagonalTo(to) {
		return math.Sqrt2
	}
	return 1
}

// PathCost sums EdgeCost along consecutive nodes of path
func (g *Grid) PathCost(path []Node) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += g.EdgeCost(path[i-1], path[i])
	}
	return total
}
