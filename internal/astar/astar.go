// Package astar finds least-cost paths on a grid guided by a heuristic.
//
// The open set is a stable min-heap on f = g + h where ties leave in
// insertion order. A node is re-queued whenever its g improves and outdated
// heap entries are dropped when popped, so the heap may hold several entries
// for one node. Every node moved to the closed set counts as one expansion,
// the goal included.
package astar

import (
	"fmt"
	"math"
	"slices"

	"github.com/mitchelldurbincs/GridFastMap/internal/frontier"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/heuristic"
)

type openEntry struct {
	node grid.Node
	g    float64
}

// Search runs A* from start to goal. It returns an error wrapping
// ErrInvalidQuery when either endpoint is not traversable; an unreachable goal
// is reported through Result.Found, not as an error.
func Search(g grid.Graph, start, goal grid.Node, h heuristic.Heuristic, opts ...Option) (Result, error) {
	cfg := Options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(g, "start", start); err != nil {
		return Result{}, err
	}
	if err := validate(g, "goal", goal); err != nil {
		return Result{}, err
	}

	gScore := map[grid.Node]float64{start: 0}
	parent := make(map[grid.Node]grid.Node)
	closed := make(map[grid.Node]struct{})
	open := frontier.New[openEntry](64)
	open.Push(openEntry{node: start}, estimate(h, start, goal))

	expanded := 0
	for {
		cur, _, ok := open.Pop()
		if !ok {
			return Result{Expanded: expanded}, nil
		}
		if _, done := closed[cur.node]; done {
			continue
		}
		if cur.g > gScore[cur.node] {
			continue
		}
		if cfg.MaxExpansions > 0 && expanded >= cfg.MaxExpansions {
			return Result{Expanded: expanded}, fmt.Errorf("%w: %d expansions", ErrBudgetExceeded, expanded)
		}

		closed[cur.node] = struct{}{}
		expanded++
		if cfg.OnExpand != nil {
			cfg.OnExpand(cur.node)
		}

		if cur.node == goal {
			return Result{
				Path:     reconstruct(parent, start, goal),
				Cost:     cur.g,
				Expanded: expanded,
				Found:    true,
			}, nil
		}

		for next := range g.Neighbors(cur.node) {
			if _, done := closed[next]; done {
				continue
			}
			ng := cur.g + g.EdgeCost(cur.node, next)
			if old, seen := gScore[next]; seen && ng >= old {
				continue
			}
			gScore[next] = ng
			parent[next] = cur.node
			open.Push(openEntry{node: next, g: ng}, ng+estimate(h, next, goal))
		}
	}
}

func validate(g grid.Graph, role string, n grid.Node) error {
	if !g.InBounds(n) {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidQuery, role, n, grid.ErrOutOfBounds)
	}
	if !g.IsTraversable(n) {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidQuery, role, n, grid.ErrBlocked)
	}
	return nil
}

// estimate calls h and panics on a negative or non-finite value
func estimate(h heuristic.Heuristic, n, goal grid.Node) float64 {
	v := h.Estimate(n, goal)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("astar: heuristic %s returned %v for %s", h.Name(), v, n))
	}
	return v
}

func reconstruct(parent map[grid.Node]grid.Node, start, goal grid.Node) []grid.Node {
	path := []grid.Node{goal}
	for n := goal; n != start; {
		n = parent[n]
		path = append(path, n)
	}
	slices.Reverse(path)
	return path
}
