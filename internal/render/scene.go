// Package render draws grids and search results as text, PNG and GeoJSON.
package render

import (
	"github.com/mitchelldurbincs/GridFastMap/internal/astar"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// Cell is what a renderer shows for one grid position
type Cell int

const (
	CellOpen Cell = iota
	CellBlocked
	CellExpanded
	CellPath
	CellStart
	CellGoal
)

// Scene is a grid plus the optional overlays of one search
type Scene struct {
	Grid  *grid.Grid
	Start grid.Node
	Goal  grid.Node
	// HasQuery marks Start and Goal as set
	HasQuery bool
	Result   astar.Result
	// Expanded lists the nodes closed by the search, usually collected with
	// astar.WithOnExpand
	Expanded []grid.Node
}

// NewScene builds a scene for a finished search
func NewScene(g *grid.Grid, start, goal grid.Node, res astar.Result, expanded []grid.Node) Scene {
	return Scene{
		Grid:     g,
		Start:    start,
		Goal:     goal,
		HasQuery: true,
		Result:   res,
		Expanded: expanded,
	}
}

// cells resolves the overlay precedence: endpoints, then path, then expanded
func (s Scene) cells() []Cell {
	g := s.Grid
	out := make([]Cell, g.Size())
	for i := range out {
		if !g.IsTraversable(grid.FromIndex(i, g.Cols())) {
			out[i] = CellBlocked
		}
	}
	for _, n := range s.Expanded {
		if g.InBounds(n) {
			out[n.ToIndex(g.Cols())] = CellExpanded
		}
	}
	for _, n := range s.Result.Path {
		if g.InBounds(n) {
			out[n.ToIndex(g.Cols())] = CellPath
		}
	}
	if s.HasQuery {
		if g.InBounds(s.Start) {
			out[s.Start.ToIndex(g.Cols())] = CellStart
		}
		if g.InBounds(s.Goal) {
			out[s.Goal.ToIndex(g.Cols())] = CellGoal
		}
	}
	return out
}
