// Command mapgen writes a random octile map and, optionally, a scenario file
// of random queries labelled with their optimal cost.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GridFastMap/internal/app"
	"github.com/mitchelldurbincs/GridFastMap/internal/benchmark"
	"github.com/mitchelldurbincs/GridFastMap/internal/config"
	"github.com/mitchelldurbincs/GridFastMap/internal/logging"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("mapgen failed")
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mapgen", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	width := fs.Int("width", 0, "Map width (0 to use config default)")
	height := fs.Int("height", 0, "Map height (0 to use config default)")
	seed := fs.Int64("seed", 0, "Generator seed (0 to use config default)")
	out := fs.String("out", "", "Map file to write (empty writes the map to stdout)")
	scen := fs.String("scen", "", "Scenario file to write (requires -out)")
	scenarios := fs.Int("scenarios", -1, "Number of scenario queries (-1 to use config default)")
	logLevel := fs.String("log-level", "", "Log level (empty to use config default)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := app.Init(*configPath, "")
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	overrides := map[string]interface{}{}
	if *width > 0 {
		overrides["generator.width"] = *width
	}
	if *height > 0 {
		overrides["generator.height"] = *height
	}
	if *seed != 0 {
		overrides["generator.seed"] = *seed
	}
	if *scenarios >= 0 {
		overrides["generator.scenarios"] = *scenarios
	}
	if *logLevel != "" {
		overrides["logging.level"] = *logLevel
	}
	for key, val := range overrides {
		if err := config.Set(key, val); err != nil {
			return fmt.Errorf("flag for %s: %w", key, err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *scen != "" && *out == "" {
		return errors.New("-scen requires -out")
	}
	// generation never reads a map file
	cfg.Map.Path = ""

	m, _, err := app.Map(cfg, true)
	if err != nil {
		return err
	}

	if *out == "" {
		return mapfile.Write(stdout, m)
	}
	if err := mapfile.WriteFile(*out, m); err != nil {
		return err
	}
	log.Info().
		Str("path", *out).
		Int("width", m.Width).
		Int("height", m.Height).
		Int64("seed", cfg.Generator.Seed).
		Msg("Map written")

	if *scen == "" {
		return nil
	}
	g, err := m.Grid(cfg.Map.Obstacles, cfg.Map.Conn())
	if err != nil {
		return err
	}
	queries := benchmark.RandomQueries(g, cfg.Generator.Scenarios, rand.New(rand.NewSource(cfg.Generator.Seed)))
	lines := benchmark.Scenarios(queries, filepath.Base(*out), m.Height, m.Width)

	f, err := os.Create(*scen)
	if err != nil {
		return err
	}
	if err := mapfile.WriteScenarios(f, lines); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().
		Str("path", *scen).
		Int("queries", len(lines)).
		Int("dropped_unreachable", len(queries)-len(lines)).
		Msg("Scenarios written")
	return nil
}
