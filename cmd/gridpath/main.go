// Command gridpath answers one shortest-path query on a grid map, or compares
// heuristics over many queries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GridFastMap/internal/app"
	"github.com/mitchelldurbincs/GridFastMap/internal/astar"
	"github.com/mitchelldurbincs/GridFastMap/internal/benchmark"
	"github.com/mitchelldurbincs/GridFastMap/internal/config"
	"github.com/mitchelldurbincs/GridFastMap/internal/dijkstra"
	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/heuristic"
	"github.com/mitchelldurbincs/GridFastMap/internal/logging"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
	"github.com/mitchelldurbincs/GridFastMap/internal/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("gridpath failed")
	}
}

type flags struct {
	configPath string
	env        string
	mapPath    string
	scenPath   string
	generate   bool
	conn       int
	start      string
	goal       string
	heuristic  string
	compare    bool
	queries    int
	seed       int64
	ascii      bool
	color      bool
	pngPath    string
	scale      int
	geojson    string
	logLevel   string
	logFormat  string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("gridpath", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to config file")
	fs.StringVar(&f.env, "env", "", "Environment overlay (merges config.<env>.yaml)")
	fs.StringVar(&f.mapPath, "map", "", "Map file (empty to use config default)")
	fs.StringVar(&f.scenPath, "scen", "", "Scenario file with queries and optimal costs")
	fs.BoolVar(&f.generate, "generate", false, "Generate a map from the generator config when no map is given")
	fs.IntVar(&f.conn, "conn", 0, "Connectivity 4 or 8 (0 to use config default)")
	fs.StringVar(&f.start, "start", "", "Start cell as row,col (default: first open cell)")
	fs.StringVar(&f.goal, "goal", "", "Goal cell as row,col (default: last open cell)")
	fs.StringVar(&f.heuristic, "heuristic", "", "Heuristic: "+strings.Join(heuristic.Names(), ", ")+" (empty to use config default)")
	fs.BoolVar(&f.compare, "compare", false, "Compare the benchmark heuristics instead of running one search")
	fs.IntVar(&f.queries, "queries", 0, "Random queries for -compare when no scenario file is given")
	fs.Int64Var(&f.seed, "seed", 1, "Seed for random queries")
	fs.BoolVar(&f.ascii, "ascii", false, "Print the grid with the path and expanded cells")
	fs.BoolVar(&f.color, "color", false, "Use ANSI colors with -ascii")
	fs.StringVar(&f.pngPath, "png", "", "Write a PNG rendering to this file")
	fs.IntVar(&f.scale, "scale", 8, "Pixels per cell for -png")
	fs.StringVar(&f.geojson, "geojson", "", "Write the path as GeoJSON to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format (console, json) (empty to use config default)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// overrides pushes explicitly set flags into the config
func (f *flags) overrides() map[string]interface{} {
	out := make(map[string]interface{})
	set := func(key string, val interface{}, ok bool) {
		if ok {
			out[key] = val
		}
	}
	set("map.path", f.mapPath, f.mapPath != "")
	set("map.scenario", f.scenPath, f.scenPath != "")
	set("map.connectivity", f.conn, f.conn != 0)
	set("search.heuristic", f.heuristic, f.heuristic != "")
	set("logging.level", f.logLevel, f.logLevel != "")
	set("logging.format", f.logFormat, f.logFormat != "")
	return out
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	f, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := app.Init(f.configPath, f.env)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	for key, val := range f.overrides() {
		if err := config.Set(key, val); err != nil {
			return fmt.Errorf("flag for %s: %w", key, err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	g, mapName, err := app.Grid(cfg, f.generate)
	if err != nil {
		return err
	}
	log.Info().
		Str("map", mapName).
		Int("rows", g.Rows()).
		Int("cols", g.Cols()).
		Int("traversable", g.TraversableCount()).
		Str("connectivity", g.Connectivity().String()).
		Msg("Map loaded")

	if f.compare {
		return compare(ctx, cfg, f, g, mapName, stdout)
	}
	return single(cfg, f, g, stdout)
}

// compare runs every benchmark heuristic over the scenario file, random
// queries, or the single start/goal pair, in that order of preference
func compare(ctx context.Context, cfg *config.Config, f *flags, g *grid.Grid, mapName string, stdout io.Writer) error {
	var queries []benchmark.Query
	switch {
	case cfg.Map.Scenario != "":
		scens, err := mapfile.ReadScenarioFile(cfg.Map.Scenario)
		if err != nil {
			return err
		}
		queries = benchmark.FromScenarios(scens, cfg.Benchmark.MaxQueries)
	case f.queries > 0:
		queries = benchmark.RandomQueries(g, f.queries, rand.New(rand.NewSource(f.seed)))
	default:
		start, goal, err := endpoints(f, g)
		if err != nil {
			return err
		}
		q := benchmark.Query{Start: start, Goal: goal}
		if dist, err := dijkstra.ShortestPathsFrom(g, start); err == nil {
			q.Optimal, q.HasOptimal = dist.Distance(goal)
		}
		queries = []benchmark.Query{q}
	}

	runner, err := benchmark.NewRunner(g, cfg.Benchmark.Heuristics,
		benchmark.WithMapName(mapName),
		benchmark.WithParallel(cfg.Benchmark.Parallel),
		benchmark.WithTolerance(cfg.Benchmark.Tolerance),
		benchmark.WithMaxExpansions(cfg.Search.MaxExpansions),
		benchmark.WithFastMapOptions(cfg.FastMap.Options()...),
		benchmark.WithEventBus(app.EventBus(log.Logger, zerolog.DebugLevel)),
	)
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx, queries)
	if err != nil {
		return err
	}
	return report.WriteTable(stdout)
}

// single runs one A* search and writes the requested renderings
func single(cfg *config.Config, f *flags, g *grid.Grid, stdout io.Writer) error {
	start, goal, err := endpoints(f, g)
	if err != nil {
		return err
	}

	var emb *fastmap.Embedding
	if cfg.Search.Heuristic == heuristic.NameFastMap {
		t0 := time.Now()
		emb = fastmap.Build(g, cfg.FastMap.Options()...)
		log.Info().
			Int("dims", emb.Dims()).
			Dur("duration", time.Since(t0)).
			Msg("FastMap embedding built")
	}
	h, err := heuristic.New(cfg.Search.Heuristic, emb)
	if err != nil {
		return err
	}

	var expanded []grid.Node
	t0 := time.Now()
	res, err := astar.Search(g, start, goal, h,
		astar.WithMaxExpansions(cfg.Search.MaxExpansions),
		astar.WithOnExpand(func(n grid.Node) { expanded = append(expanded, n) }),
	)
	if err != nil {
		return err
	}
	elapsed := time.Since(t0)

	if res.Found {
		fmt.Fprintf(stdout, "%s %s -> %s: cost=%.4f length=%d expanded=%d time=%s\n",
			h.Name(), start, goal, res.Cost, len(res.Path), res.Expanded, elapsed)
	} else {
		fmt.Fprintf(stdout, "%s %s -> %s: no path, expanded=%d time=%s\n",
			h.Name(), start, goal, res.Expanded, elapsed)
	}

	scene := render.NewScene(g, start, goal, res, expanded)
	if f.ascii {
		fmt.Fprint(stdout, render.ASCII(scene, render.ASCIIOptions{Color: f.color, Header: true, Legend: true}))
	}
	if f.pngPath != "" {
		if err := writePNG(f.pngPath, scene, f.scale); err != nil {
			return err
		}
		log.Info().Str("path", f.pngPath).Msg("PNG written")
	}
	if f.geojson != "" {
		data, err := render.GeoJSON(scene).MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding geojson: %w", err)
		}
		if err := os.WriteFile(f.geojson, data, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", f.geojson).Msg("GeoJSON written")
	}
	return nil
}

func writePNG(path string, scene render.Scene, scale int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(out, scene, scale); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// endpoints parses -start and -goal, defaulting to the first and last open
// cells in row-major order
func endpoints(f *flags, g *grid.Grid) (start, goal grid.Node, err error) {
	open := g.TraversableNodes()
	if len(open) == 0 {
		return start, goal, errors.New("map has no traversable cells")
	}
	start, goal = open[0], open[len(open)-1]
	if f.start != "" {
		if start, err = parseNode(f.start); err != nil {
			return start, goal, fmt.Errorf("-start: %w", err)
		}
	}
	if f.goal != "" {
		if goal, err = parseNode(f.goal); err != nil {
			return start, goal, fmt.Errorf("-goal: %w", err)
		}
	}
	return start, goal, nil
}

// parseNode reads "row,col"
func parseNode(s string) (grid.Node, error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Node{}, fmt.Errorf("want row,col, got %q", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return grid.Node{}, fmt.Errorf("bad row in %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return grid.Node{}, fmt.Errorf("bad column in %q: %w", s, err)
	}
	return grid.Node{Row: row, Col: col}, nil
}
