package dijkstra

import (
	"errors"
	"math"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

var (
	// ErrInvalidSource indicates the source cell is out of bounds or blocked
	ErrInvalidSource = errors.New("dijkstra: source is not traversable")
	// ErrBadMaxDistance indicates a negative or NaN distance cap
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")
)

// CostFunc returns the cost of moving along the edge from -> to
type CostFunc func(from, to grid.Node) float64

// Options configures a single ShortestPathsFrom run
type Options struct {
	// Costs replaces the graph's own EdgeCost when set
	Costs CostFunc
	// MaxDistance stops exploration beyond this distance from the source
	MaxDistance float64
}

// Option represents a functional option for ShortestPathsFrom
type Option func(*Options)

// WithEdgeCosts makes the run use costs instead of the graph's EdgeCost.
// FastMap passes its deflated residual table through this option.
func WithEdgeCosts(costs CostFunc) Option {
	return func(o *Options) {
		o.Costs = costs
	}
}

// WithMaxDistance caps exploration; nodes farther than max are left out of
// the result. Panics on a negative or NaN cap.
func WithMaxDistance(max float64) Option {
	return func(o *Options) {
		if max < 0 || math.IsNaN(max) {
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// DefaultOptions returns the graph's own costs and no distance cap
func DefaultOptions() Options {
	return Options{MaxDistance: math.Inf(1)}
}

// DistanceMap holds the final distance of every node reached from a source.
// A missing node is unreachable.
type DistanceMap map[grid.Node]float64

// Distance returns the distance to n and whether n was reached
func (d DistanceMap) Distance(n grid.Node) (float64, bool) {
	v, ok := d[n]
	return v, ok
}

// DistanceOr returns the distance to n, or fallback when n was not reached
func (d DistanceMap) DistanceOr(n grid.Node, fallback float64) float64 {
	if v, ok := d[n]; ok {
		return v
	}
	return fallback
}

// Farthest returns the reached node with the greatest distance. Ties go to
// the node that comes first in row-major order so the choice is deterministic.
func (d DistanceMap) Farthest() (grid.Node, float64) {
	var (
		best     grid.Node
		bestDist = -1.0
	)
	for n, dist := range d {
		if dist > bestDist || (dist == bestDist && n.Less(best)) {
			best, bestDist = n, dist
		}
	}
	return best, bestDist
}
