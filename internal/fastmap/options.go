package fastmap

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Projection selects the formula that places a node on a pivot axis
type Projection int

const (
	// Midpoint places v at (d(A,v) + dAB - d(B,v)) / 2
	Midpoint Projection = iota
	// LawOfCosines places v at (d(A,v)² + dAB² - d(B,v)²) / (2·dAB)
	LawOfCosines
)

// String returns the configuration name of the projection
func (p Projection) String() string {
	switch p {
	case LawOfCosines:
		return "cosines"
	default:
		return "midpoint"
	}
}

// ParseProjection maps "midpoint" or "cosines" to a Projection
func ParseProjection(name string) (Projection, error) {
	switch name {
	case "", "midpoint":
		return Midpoint, nil
	case "cosines":
		return LawOfCosines, nil
	}
	return 0, ErrUnknownProjection
}

// Options configures Build
type Options struct {
	MaxDims     int
	Epsilon     float64
	PivotRounds int
	Projection  Projection
	// Seed selects a random initial node per axis when UseSeed is set;
	// otherwise the first non-isolated traversable node is used.
	Seed    int64
	UseSeed bool
	Logger  zerolog.Logger
}

// Option represents a functional option for Build
type Option func(*Options)

// DefaultOptions returns five axes, ε = 1e-3, one extra pivot round and the
// midpoint projection.
func DefaultOptions() Options {
	return Options{
		MaxDims:     5,
		Epsilon:     1e-3,
		PivotRounds: 1,
		Projection:  Midpoint,
		Logger:      log.With().Str("component", "fastmap").Logger(),
	}
}

// WithMaxDims caps the number of axes (Kmax)
func WithMaxDims(k int) Option {
	return func(o *Options) {
		if k < 0 {
			panic(ErrBadMaxDims.Error())
		}
		o.MaxDims = k
	}
}

// WithEpsilon sets the pivot distance under which no further axis is built
func WithEpsilon(eps float64) Option {
	return func(o *Options) {
		if eps < 0 {
			panic(ErrBadEpsilon.Error())
		}
		o.Epsilon = eps
	}
}

// WithPivotRounds sets how many extra farthest-point round trips refine each
// pivot pair
func WithPivotRounds(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.PivotRounds = n
	}
}

// WithProjection selects the coordinate formula
func WithProjection(p Projection) Option {
	return func(o *Options) {
		o.Projection = p
	}
}

// WithSeed picks the initial node of every pivot search at random from seed
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = seed
		o.UseSeed = true
	}
}

// WithLogger sets the logger used for per-axis debug output
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
