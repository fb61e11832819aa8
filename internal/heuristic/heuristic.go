// Package heuristic provides distance estimates that guide A* over a grid.
package heuristic

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

var (
	ErrUnknownHeuristic = errors.New("heuristic: unknown heuristic")
	ErrMissingEmbedding = errors.New("heuristic: fastmap heuristic needs an embedding")
)

// Heuristic estimates the remaining cost between two nodes. Estimates must be
// non-negative, finite and pure.
type Heuristic interface {
	Estimate(a, b grid.Node) float64
	Name() string
}

const (
	NameManhattan = "manhattan"
	NameOctile    = "octile"
	NameFastMap   = "fastmap"
	NameZero      = "zero"
)

// Names lists every name New accepts, sorted
func Names() []string {
	names := []string{NameManhattan, NameOctile, NameFastMap, NameZero}
	sort.Strings(names)
	return names
}

// New resolves a heuristic by name. The fastmap heuristic reads emb, which may
// be nil for the others.
func New(name string, emb *fastmap.Embedding) (Heuristic, error) {
	switch name {
	case NameManhattan:
		return Manhattan{}, nil
	case NameOctile:
		return Octile{}, nil
	case NameZero:
		return Zero{}, nil
	case NameFastMap:
		if emb == nil {
			return nil, ErrMissingEmbedding
		}
		return FastMapDistance{Embedding: emb}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
}

// Manhattan is |Δr| + |Δc|, admissible on 4-connected grids
type Manhattan struct{}

func (Manhattan) Estimate(a, b grid.Node) float64 {
	dr, dc := a.Delta(b)
	return float64(dr + dc)
}

func (Manhattan) Name() string { return NameManhattan }

// Octile is max(Δ) + (√2-1)·min(Δ), admissible on 8-connected grids
type Octile struct{}

func (Octile) Estimate(a, b grid.Node) float64 {
	dr, dc := a.Delta(b)
	return float64(max(dr, dc)) + (math.Sqrt2-1)*float64(min(dr, dc))
}

func (Octile) Name() string { return NameOctile }

// FastMapDistance is the L1 distance between embedding vectors. Nodes the
// embedding never reached estimate to 0.
type FastMapDistance struct {
	Embedding *fastmap.Embedding
}

func (h FastMapDistance) Estimate(a, b grid.Node) float64 {
	return h.Embedding.Distance(a, b)
}

func (FastMapDistance) Name() string { return NameFastMap }

// Zero always estimates 0, turning A* into uniform-cost search
type Zero struct{}

func (Zero) Estimate(grid.Node, grid.Node) float64 { return 0 }

func (Zero) Name() string { return NameZero }
