// Package fastmap embeds the traversable cells of a grid into a low
// dimensional L1 space whose distances approximate shortest-path distances.
package fastmap

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mitchelldurbincs/GridFastMap/internal/dijkstra"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// Build computes the embedding of g. Degenerate inputs (fewer than two
// traversable cells, no edges, MaxDims == 0) produce an empty embedding. The
// build stops early once the residual pivot distance drops below Epsilon.
func Build(g *grid.Grid, opts ...Option) *Embedding {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	emb := newEmbedding(g)
	if g.TraversableCount() < 2 || cfg.MaxDims == 0 {
		return emb
	}

	starts := startCandidates(g)
	if len(starts) == 0 {
		return emb
	}

	b := &builder{
		g:       g,
		cfg:     cfg,
		weights: newResidualWeights(g),
	}
	if cfg.UseSeed {
		b.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	for k := 0; k < cfg.MaxDims; k++ {
		start := starts[0]
		if b.rng != nil {
			start = starts[b.rng.Intn(len(starts))]
		}

		pivotA, pivotB, distA, distB := b.selectPivots(start)
		dAB := distA[pivotB]
		if dAB < cfg.Epsilon || dAB == 0 {
			cfg.Logger.Debug().
				Int("axis", k).
				Float64("d_ab", dAB).
				Msg("Residual pivot distance below epsilon, stopping")
			break
		}

		axis := make(map[grid.Node]float64, len(distA))
		for v, dAv := range distA {
			dBv, ok := distB[v]
			if !ok {
				continue
			}
			c := cfg.Projection.project(dAv, dBv, dAB)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				panic(fmt.Sprintf("fastmap: non-finite coordinate %v for %s on axis %d", c, v, k))
			}
			axis[v] = c
			emb.set(v, k, c)
		}

		b.weights.deflate(g, axis)
		emb.axes = append(emb.axes, Axis{
			PivotA:   pivotA,
			PivotB:   pivotB,
			Distance: dAB,
			Reached:  len(axis),
		})

		cfg.Logger.Debug().
			Int("axis", k).
			Str("pivot_a", pivotA.String()).
			Str("pivot_b", pivotB.String()).
			Float64("d_ab", dAB).
			Int("reached", len(axis)).
			Msg("FastMap axis built")
	}

	return emb
}

// project places a node on the axis from its distances to both pivots
func (p Projection) project(dAv, dBv, dAB float64) float64 {
	if p == LawOfCosines {
		return (dAv*dAv + dAB*dAB - dBv*dBv) / (2 * dAB)
	}
	return (dAv + dAB - dBv) / 2
}

type builder struct {
	g       *grid.Grid
	cfg     Options
	weights *residualWeights
	rng     *rand.Rand
}

// distances runs the oracle over the current residual weights
func (b *builder) distances(source grid.Node) dijkstra.DistanceMap {
	d, err := dijkstra.ShortestPathsFrom(b.g, source, dijkstra.WithEdgeCosts(b.weights.cost))
	if err != nil {
		// sources always come from the traversable set
		panic(err)
	}
	return d
}

// selectPivots runs the farthest-point ping-pong from start: B is the farthest
// node from start, A the farthest from B, then PivotRounds extra round trips.
func (b *builder) selectPivots(start grid.Node) (pivotA, pivotB grid.Node, distA, distB dijkstra.DistanceMap) {
	pivotB, _ = b.distances(start).Farthest()
	distB = b.distances(pivotB)
	pivotA, _ = distB.Farthest()

	for i := 0; i < b.cfg.PivotRounds; i++ {
		distA = b.distances(pivotA)
		pivotB, _ = distA.Farthest()
		distB = b.distances(pivotB)
		pivotA, _ = distB.Farthest()
	}

	distA = b.distances(pivotA)
	return pivotA, pivotB, distA, distB
}

// startCandidates lists traversable nodes with at least one neighbor, in
// row-major order.
func startCandidates(g *grid.Grid) []grid.Node {
	var out []grid.Node
	for _, n := range g.TraversableNodes() {
		for range g.Neighbors(n) {
			out = append(out, n)
			break
		}
	}
	return out
}
