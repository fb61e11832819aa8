// Package benchmark runs a batch of shortest-path queries under several
// heuristics and reports how much search effort each one needed.
package benchmark

import (
	"math/rand"

	"github.com/mitchelldurbincs/GridFastMap/internal/dijkstra"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
)

// Query is one start/goal pair. Optimal is only meaningful when HasOptimal is
// set; unreachable pairs carry HasOptimal == false.
type Query struct {
	Start      grid.Node
	Goal       grid.Node
	Optimal    float64
	HasOptimal bool
}

// FromScenarios converts scenario lines into queries. limit <= 0 keeps all.
func FromScenarios(scenarios []mapfile.Scenario, limit int) []Query {
	if limit > 0 && limit < len(scenarios) {
		scenarios = scenarios[:limit]
	}
	out := make([]Query, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, Query{
			Start:      s.Start,
			Goal:       s.Goal,
			Optimal:    s.Optimal,
			HasOptimal: true,
		})
	}
	return out
}

// RandomQueries draws n start/goal pairs uniformly from the traversable cells
// and labels each with its Dijkstra distance.
func RandomQueries(g *grid.Grid, n int, rng *rand.Rand) []Query {
	open := g.TraversableNodes()
	if len(open) == 0 || n <= 0 {
		return nil
	}

	out := make([]Query, 0, n)
	bySource := make(map[grid.Node]dijkstra.DistanceMap)
	for i := 0; i < n; i++ {
		q := Query{
			Start: open[rng.Intn(len(open))],
			Goal:  open[rng.Intn(len(open))],
		}
		dist, ok := bySource[q.Start]
		if !ok {
			// start is traversable, so the oracle cannot fail
			dist, _ = dijkstra.ShortestPathsFrom(g, q.Start)
			bySource[q.Start] = dist
		}
		q.Optimal, q.HasOptimal = dist.Distance(q.Goal)
		out = append(out, q)
	}
	return out
}

// Scenarios turns queries back into scenario lines for mapName. Unreachable
// queries are dropped since the format has no way to express them.
func Scenarios(queries []Query, mapName string, rows, cols int) []mapfile.Scenario {
	out := make([]mapfile.Scenario, 0, len(queries))
	for _, q := range queries {
		if !q.HasOptimal {
			continue
		}
		out = append(out, mapfile.Scenario{
			Bucket:  int(q.Optimal / 4),
			Map:     mapName,
			Width:   cols,
			Height:  rows,
			Start:   q.Start,
			Goal:    q.Goal,
			Optimal: q.Optimal,
		})
	}
	return out
}
