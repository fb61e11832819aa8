package astar

import (
	"errors"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

var (
	// ErrInvalidQuery indicates the start or goal is out of bounds or blocked
	ErrInvalidQuery = errors.New("astar: invalid query")
	// ErrBudgetExceeded indicates the search hit its expansion budget
	ErrBudgetExceeded = errors.New("astar: expansion budget exceeded")
)

// Result is the outcome of one search. Found is false when the goal cannot be
// reached; Path is nil in that case.
type Result struct {
	Path     []grid.Node
	Cost     float64
	Expanded int
	Found    bool
}

// Options configures a single Search
type Options struct {
	// OnExpand is called for every node moved to the closed set
	OnExpand func(grid.Node)
	// MaxExpansions stops the search with ErrBudgetExceeded; 0 means unlimited
	MaxExpansions int
}

// Option represents a functional option for Search
type Option func(*Options)

// WithOnExpand registers a callback invoked on every expansion, in order
func WithOnExpand(fn func(grid.Node)) Option {
	return func(o *Options) {
		o.OnExpand = fn
	}
}

// WithMaxExpansions caps the number of expansions. Values <= 0 remove the cap.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.MaxExpansions = n
	}
}
