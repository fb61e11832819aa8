// Package server exposes A* queries over one grid as a gRPC service.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GridFastMap/internal/astar"
	"github.com/mitchelldurbincs/GridFastMap/internal/events"
	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/heuristic"
	"github.com/mitchelldurbincs/GridFastMap/internal/monitoring"
	"github.com/mitchelldurbincs/GridFastMap/internal/spatial"
)

// Options configures a Server
type Options struct {
	MapName          string
	DefaultHeuristic string
	// MaxExpansions caps requests that do not set their own budget, and also
	// bounds the budget a request may ask for; 0 means unlimited
	MaxExpansions  int
	Embedding      *fastmap.Embedding
	FastMapOptions []fastmap.Option
	Bus            events.Publisher
	Logger         zerolog.Logger
}

// Option represents a functional option for NewServer
type Option func(*Options)

// WithMapName sets the map name reported by MapInfo
func WithMapName(name string) Option {
	return func(o *Options) { o.MapName = name }
}

// WithDefaultHeuristic sets the heuristic used when a request names none
func WithDefaultHeuristic(name string) Option {
	return func(o *Options) { o.DefaultHeuristic = name }
}

// WithMaxExpansions sets the server-wide expansion budget
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithEmbedding serves the fastmap heuristic from a prebuilt embedding
func WithEmbedding(emb *fastmap.Embedding) Option {
	return func(o *Options) { o.Embedding = emb }
}

// WithFastMapOptions configures the embedding built by NewServer
func WithFastMapOptions(opts ...fastmap.Option) Option {
	return func(o *Options) { o.FastMapOptions = opts }
}

// WithEventBus publishes one event per query to bus
func WithEventBus(bus events.Publisher) Option {
	return func(o *Options) { o.Bus = bus }
}

// WithLogger sets the server's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Server implements PathServiceServer over a fixed grid. Everything it holds
// is read-only after NewServer, so requests run concurrently without locking.
//
// FindPath request:  {start:{row,col}, goal:{row,col}, heuristic?, max_expansions?}
// FindPath response: {found, cost, expanded, path:[{row,col}...], heuristic, request_id}
// MapInfo response:  {map, rows, cols, traversable, connectivity, embedding_dims, heuristics}
type Server struct {
	g          *grid.Grid
	heuristics map[string]heuristic.Heuristic
	embedding  *fastmap.Embedding
	index      *spatial.Index
	opts       Options
	logger     zerolog.Logger
}

// NewServer prepares every heuristic for g. Unless an embedding is supplied,
// the FastMap embedding is built here, before the first request.
func NewServer(g *grid.Grid, opts ...Option) (*Server, error) {
	o := Options{
		DefaultHeuristic: heuristic.NameOctile,
		Logger:           log.With().Str("component", "path_server").Logger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		g:          g,
		heuristics: make(map[string]heuristic.Heuristic),
		embedding:  o.Embedding,
		index:      spatial.NewIndex(g),
		opts:       o,
		logger:     o.Logger,
	}

	if s.embedding == nil {
		fmOpts := append([]fastmap.Option{fastmap.WithLogger(s.logger)}, o.FastMapOptions...)
		start := time.Now()
		s.embedding = fastmap.Build(g, fmOpts...)
		elapsed := time.Since(start)
		monitoring.ObserveEmbedding(s.embedding.Dims(), elapsed)
		s.publish(events.NewEmbeddingBuiltEvent("", s.embedding.Dims(), s.embedding.Len(), elapsed))
		s.logger.Info().
			Int("dims", s.embedding.Dims()).
			Int("nodes", s.embedding.Len()).
			Dur("duration", elapsed).
			Msg("FastMap embedding built")
	}

	for _, name := range heuristic.Names() {
		h, err := heuristic.New(name, s.embedding)
		if err != nil {
			return nil, err
		}
		s.heuristics[name] = h
	}
	if _, ok := s.heuristics[o.DefaultHeuristic]; !ok {
		return nil, fmt.Errorf("%w: %q", heuristic.ErrUnknownHeuristic, o.DefaultHeuristic)
	}
	return s, nil
}

// FindPath runs one A* query. Malformed requests, unknown heuristics and
// blocked or out-of-bounds endpoints are InvalidArgument; a search that runs
// out of budget is ResourceExhausted. An unreachable goal is a normal response
// with found = false.
func (s *Server) FindPath(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	requestID := RequestIDFromContext(ctx)

	start, err := nodeField(req, "start")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	goal, err := nodeField(req, "goal")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	name, err := optionalString(req, "heuristic", s.opts.DefaultHeuristic)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	h, ok := s.heuristics[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown heuristic %q, want one of %v", name, heuristic.Names())
	}
	budget, err := optionalInt(req, "max_expansions", s.opts.MaxExpansions)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if budget < 0 {
		return nil, status.Error(codes.InvalidArgument, "max_expansions must be non-negative")
	}
	if limit := s.opts.MaxExpansions; limit > 0 && (budget == 0 || budget > limit) {
		budget = limit
	}

	t0 := time.Now()
	res, err := astar.Search(s.g, start, goal, h, astar.WithMaxExpansions(budget))
	elapsed := time.Since(t0)
	monitoring.ObserveSearch(name, res, err, elapsed)

	if err != nil {
		s.publish(events.NewSearchFailedEvent(requestID, name, start, goal, err.Error()))
		switch {
		case errors.Is(err, astar.ErrInvalidQuery):
			return nil, status.Error(codes.InvalidArgument, s.describeInvalid(err, start, goal))
		case errors.Is(err, astar.ErrBudgetExceeded):
			return nil, status.Errorf(codes.ResourceExhausted, "%v", err)
		default:
			return nil, status.Errorf(codes.Internal, "search failed: %v", err)
		}
	}

	s.publish(events.NewSearchCompletedEvent(requestID, name, start, goal, res.Found, res.Cost, res.Expanded, elapsed))
	s.logger.Debug().
		Str("request_id", requestID).
		Str("heuristic", name).
		Str("start", start.String()).
		Str("goal", goal.String()).
		Bool("found", res.Found).
		Int("expanded", res.Expanded).
		Dur("duration", elapsed).
		Msg("Path query answered")

	return structpb.NewStruct(map[string]interface{}{
		"found":      res.Found,
		"cost":       res.Cost,
		"expanded":   res.Expanded,
		"path":       pathValue(res.Path),
		"heuristic":  name,
		"request_id": requestID,
	})
}

// describeInvalid appends the closest open cell to each bad endpoint
func (s *Server) describeInvalid(err error, start, goal grid.Node) string {
	msg := err.Error()
	for _, ep := range []struct {
		role string
		node grid.Node
	}{{"start", start}, {"goal", goal}} {
		if s.g.IsTraversable(ep.node) {
			continue
		}
		if near, ok := s.index.Nearest(ep.node); ok {
			msg += fmt.Sprintf("; nearest traversable cell to %s is %s", ep.role, near)
		}
	}
	return msg
}

// MapInfo describes the grid being served
func (s *Server) MapInfo(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	names := heuristic.Names()
	list := make([]interface{}, len(names))
	for i, n := range names {
		list[i] = n
	}
	return structpb.NewStruct(map[string]interface{}{
		"map":            s.opts.MapName,
		"rows":           s.g.Rows(),
		"cols":           s.g.Cols(),
		"traversable":    s.g.TraversableCount(),
		"connectivity":   int(s.g.Connectivity()),
		"embedding_dims": s.embedding.Dims(),
		"heuristics":     list,
	})
}

// Embedding returns the embedding behind the fastmap heuristic
func (s *Server) Embedding() *fastmap.Embedding { return s.embedding }

func (s *Server) publish(e events.Event) {
	if s.opts.Bus != nil {
		s.opts.Bus.Publish(e)
	}
}
