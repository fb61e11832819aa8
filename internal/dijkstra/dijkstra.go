// Package dijkstra computes single-source shortest paths over a grid graph.
//
// It is a label-setting search: nodes leave a stable min-heap in order of
// distance, each settled node is final and is never expanded again, and a
// neighbor is re-queued only when relaxation strictly improves it. Outdated
// heap entries are skipped on extraction ("lazy decrease-key").
//
// The same routine answers plain distance queries and drives FastMap's pivot
// search; FastMap swaps in its residual edge costs with WithEdgeCosts.
//
// Complexity: O((V + E) log V) time, O(V + E) space.
package dijkstra

import (
	"fmt"
	"math"

	"github.com/mitchelldurbincs/GridFastMap/internal/frontier"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// ShortestPathsFrom returns the distance from source to every node reachable
// from it. Unreachable nodes are absent from the map.
func ShortestPathsFrom(g grid.Graph, source grid.Node, opts ...Option) (DistanceMap, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !g.InBounds(source) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSource, source, grid.ErrOutOfBounds)
	}
	if !g.IsTraversable(source) {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSource, source, grid.ErrBlocked)
	}
	costs := cfg.Costs
	if costs == nil {
		costs = g.EdgeCost
	}

	dist := DistanceMap{source: 0}
	settled := make(map[grid.Node]struct{})
	pq := frontier.New[grid.Node](64)
	pq.Push(source, 0)

	for {
		u, du, ok := pq.Pop()
		if !ok {
			break
		}
		if _, done := settled[u]; done {
			continue
		}
		if du > cfg.MaxDistance {
			break
		}
		settled[u] = struct{}{}

		for v := range g.Neighbors(u) {
			if _, done := settled[v]; done {
				continue
			}
			w := costs(u, v)
			if w < 0 || math.IsNaN(w) {
				panic(fmt.Sprintf("dijkstra: invalid edge cost %v on %s->%s", w, u, v))
			}
			nd := du + w
			if old, seen := dist[v]; seen && nd >= old {
				continue
			}
			dist[v] = nd
			pq.Push(v, nd)
		}
	}

	if !math.IsInf(cfg.MaxDistance, 1) {
		for n, d := range dist {
			if d > cfg.MaxDistance {
				delete(dist, n)
			}
		}
	}
	return dist, nil
}
