package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/GridFastMap/internal/astar"
	"github.com/mitchelldurbincs/GridFastMap/internal/events"
	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/heuristic"
	"github.com/mitchelldurbincs/GridFastMap/internal/monitoring"
)

// ErrNoHeuristics is returned by NewRunner when the heuristic list is empty
var ErrNoHeuristics = errors.New("benchmark: no heuristics to compare")

// Options configures a Runner
type Options struct {
	MapName string
	// Parallel bounds how many heuristics run at once; 0 runs all together
	Parallel int
	// Tolerance is the slack allowed above a known optimum before a path
	// counts as suboptimal
	Tolerance      float64
	MaxExpansions  int
	Embedding      *fastmap.Embedding
	FastMapOptions []fastmap.Option
	Bus            events.Publisher
	Logger         zerolog.Logger
}

// Option represents a functional option for NewRunner
type Option func(*Options)

// WithMapName labels the run with the map it searches
func WithMapName(name string) Option {
	return func(o *Options) { o.MapName = name }
}

// WithParallel bounds the number of heuristics searched concurrently
func WithParallel(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.Parallel = n
	}
}

// WithTolerance sets the suboptimality slack
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxExpansions caps every search; exceeding it counts as a failure
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithEmbedding reuses a prebuilt embedding for the fastmap heuristic
func WithEmbedding(emb *fastmap.Embedding) Option {
	return func(o *Options) { o.Embedding = emb }
}

// WithFastMapOptions configures the embedding built when none is supplied
func WithFastMapOptions(opts ...fastmap.Option) Option {
	return func(o *Options) { o.FastMapOptions = opts }
}

// WithEventBus publishes run and search events to bus
func WithEventBus(bus events.Publisher) Option {
	return func(o *Options) { o.Bus = bus }
}

// WithLogger sets the runner's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Runner compares heuristics on one grid. A Runner is reusable; every Run
// shares the heuristics and embedding built by NewRunner.
type Runner struct {
	g          *grid.Grid
	runID      string
	names      []string
	heuristics []heuristic.Heuristic
	embedding  *fastmap.Embedding
	opts       Options
	logger     zerolog.Logger
}

// NewRunner resolves the named heuristics. When fastmap is among them and no
// embedding was supplied, the embedding is built here.
func NewRunner(g *grid.Grid, names []string, opts ...Option) (*Runner, error) {
	o := Options{
		Tolerance: 1e-6,
		Logger:    log.With().Str("component", "benchmark").Logger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if len(names) == 0 {
		return nil, ErrNoHeuristics
	}

	r := &Runner{
		g:      g,
		runID:  uuid.NewString(),
		names:  append([]string(nil), names...),
		opts:   o,
		logger: o.Logger,
	}
	r.logger = r.logger.With().Str("run_id", r.runID).Logger()

	r.embedding = o.Embedding
	for _, name := range names {
		if name == heuristic.NameFastMap && r.embedding == nil {
			r.embedding = r.buildEmbedding()
		}
		h, err := heuristic.New(name, r.embedding)
		if err != nil {
			return nil, err
		}
		r.heuristics = append(r.heuristics, h)
	}
	return r, nil
}

func (r *Runner) buildEmbedding() *fastmap.Embedding {
	fmOpts := append([]fastmap.Option{fastmap.WithLogger(r.logger)}, r.opts.FastMapOptions...)

	start := time.Now()
	emb := fastmap.Build(r.g, fmOpts...)
	elapsed := time.Since(start)

	monitoring.ObserveEmbedding(emb.Dims(), elapsed)
	r.publish(events.NewEmbeddingBuiltEvent(r.runID, emb.Dims(), emb.Len(), elapsed))
	r.logger.Info().
		Int("dims", emb.Dims()).
		Int("nodes", emb.Len()).
		Dur("duration", elapsed).
		Msg("FastMap embedding built")
	return emb
}

// RunID identifies this runner in events, logs and reports
func (r *Runner) RunID() string { return r.runID }

// Embedding returns the embedding used by the fastmap heuristic, or nil
func (r *Runner) Embedding() *fastmap.Embedding { return r.embedding }

// Run searches every query with every heuristic. Invalid queries and searches
// that exceed the expansion budget are counted, not returned; only context
// cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, queries []Query) (*Report, error) {
	started := time.Now()
	r.publish(events.NewRunStartedEvent(r.runID, r.opts.MapName, r.g.Rows(), r.g.Cols(), r.names, len(queries)))
	r.logger.Info().
		Str("map", r.opts.MapName).
		Strs("heuristics", r.names).
		Int("queries", len(queries)).
		Msg("Benchmark run started")

	stats := make([]HeuristicStats, len(r.heuristics))
	eg, ctx := errgroup.WithContext(ctx)
	if r.opts.Parallel > 0 {
		eg.SetLimit(r.opts.Parallel)
	}
	for i, h := range r.heuristics {
		eg.Go(func() error {
			s, err := r.runHeuristic(ctx, h, queries)
			stats[i] = s
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("benchmark run %s: %w", r.runID, err)
	}

	report := &Report{
		RunID:    r.runID,
		Map:      r.opts.MapName,
		Queries:  len(queries),
		Started:  started,
		Duration: time.Since(started),
		Stats:    stats,
	}
	if r.embedding != nil {
		report.EmbeddingDims = r.embedding.Dims()
	}

	searches, failures := 0, 0
	for _, s := range stats {
		searches += s.Solved + s.Unreachable + s.Failed
		failures += s.Failed
	}
	r.publish(events.NewRunEndedEvent(r.runID, report.Duration, searches, failures))
	r.logger.Info().
		Dur("duration", report.Duration).
		Int("searches", searches).
		Int("failures", failures).
		Msg("Benchmark run finished")

	return report, nil
}

func (r *Runner) runHeuristic(ctx context.Context, h heuristic.Heuristic, queries []Query) (HeuristicStats, error) {
	stats := HeuristicStats{Heuristic: h.Name()}
	started := time.Now()

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		t0 := time.Now()
		res, err := astar.Search(r.g, q.Start, q.Goal, h, astar.WithMaxExpansions(r.opts.MaxExpansions))
		elapsed := time.Since(t0)
		monitoring.ObserveSearch(h.Name(), res, err, elapsed)

		if err != nil {
			stats.Failed++
			r.publish(events.NewSearchFailedEvent(r.runID, h.Name(), q.Start, q.Goal, err.Error()))
			r.logger.Debug().
				Err(err).
				Str("heuristic", h.Name()).
				Str("start", q.Start.String()).
				Str("goal", q.Goal.String()).
				Msg("Search failed")
			continue
		}

		r.publish(events.NewSearchCompletedEvent(r.runID, h.Name(), q.Start, q.Goal, res.Found, res.Cost, res.Expanded, elapsed))
		stats.TotalExpanded += res.Expanded
		if !res.Found {
			stats.Unreachable++
			continue
		}
		stats.Solved++
		stats.TotalCost += res.Cost
		if q.HasOptimal && res.Cost > q.Optimal+r.opts.Tolerance {
			stats.Suboptimal++
			r.logger.Warn().
				Str("heuristic", h.Name()).
				Str("start", q.Start.String()).
				Str("goal", q.Goal.String()).
				Float64("cost", res.Cost).
				Float64("optimal", q.Optimal).
				Msg("Suboptimal path")
		}
	}
	stats.Duration = time.Since(started)
	return stats, nil
}

func (r *Runner) publish(e events.Event) {
	if r.opts.Bus != nil {
		r.opts.Bus.Publish(e)
	}
}
