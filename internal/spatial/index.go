// Package spatial answers "closest open cell" queries with an R-tree over the
// traversable cells of a grid.
package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// candidates examined per query; enough to cover every cell at the same
// distance around a point
const candidates = 8

// cellEntry wraps a grid cell for R-tree storage
type cellEntry struct {
	node grid.Node
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (c *cellEntry) Bounds() rtreego.Rect {
	return c.bbox
}

// Index manages nearest-cell queries
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex indexes every traversable cell of g
func NewIndex(g *grid.Grid) *Index {
	nodes := g.TraversableNodes()
	objs := make([]rtreego.Spatial, 0, len(nodes))
	for _, n := range nodes {
		objs = append(objs, &cellEntry{node: n, bbox: point(n).ToRect(0.5)})
	}
	// 2D, min 25, max 50 entries per node
	return &Index{tree: rtreego.NewTree(2, 25, 50, objs...)}
}

// Len returns the number of indexed cells
func (idx *Index) Len() int {
	return idx.tree.Size()
}

// Nearest returns the traversable cell closest to n by straight-line
// distance; ties go to the first cell in row-major order. n itself is
// returned when it is traversable. ok is false for an empty index.
func (idx *Index) Nearest(n grid.Node) (grid.Node, bool) {
	found := idx.tree.NearestNeighbors(candidates, point(n))
	var (
		best     grid.Node
		bestDist = -1
	)
	for _, item := range found {
		entry, ok := item.(*cellEntry)
		if !ok {
			continue
		}
		dr, dc := entry.node.Delta(n)
		d := dr*dr + dc*dc
		if bestDist < 0 || d < bestDist || (d == bestDist && entry.node.Less(best)) {
			best, bestDist = entry.node, d
		}
	}
	return best, bestDist >= 0
}

func point(n grid.Node) rtreego.Point {
	return rtreego.Point{float64(n.Row), float64(n.Col)}
}
