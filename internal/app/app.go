// Package app holds the startup steps shared by the command-line tools.
package app

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GridFastMap/internal/config"
	"github.com/mitchelldurbincs/GridFastMap/internal/events"
	"github.com/mitchelldurbincs/GridFastMap/internal/events/subscribers"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapgen"
)

// ErrNoMap is returned when neither a map file nor generation was requested
var ErrNoMap = errors.New("no map: set map.path or enable generation")

// Init loads the config file, merges the environment overlay and configures
// logging from the result
func Init(configPath, env string) (*config.Config, error) {
	if err := config.Init(configPath); err != nil {
		return nil, err
	}
	if err := config.LoadEnvironmentConfig(env); err != nil {
		return nil, err
	}
	return config.Get(), nil
}

// Map reads cfg.Map.Path, or generates a map from cfg.Generator when the path
// is empty and generate is set. The returned name labels logs and reports.
func Map(cfg *config.Config, generate bool) (*mapfile.Map, string, error) {
	if cfg.Map.Path != "" {
		m, err := mapfile.ReadFile(cfg.Map.Path)
		if err != nil {
			return nil, "", err
		}
		return m, filepath.Base(cfg.Map.Path), nil
	}
	if !generate {
		return nil, "", ErrNoMap
	}
	gen := mapgen.NewGenerator(cfg.Generator.MapGenConfig(), rand.New(rand.NewSource(cfg.Generator.Seed)))
	name := fmt.Sprintf("generated-%dx%d-seed%d.map", cfg.Generator.Width, cfg.Generator.Height, cfg.Generator.Seed)
	return gen.GenerateMap(), name, nil
}

// Grid loads or generates the configured map and builds its grid graph
func Grid(cfg *config.Config, generate bool) (*grid.Grid, string, error) {
	m, name, err := Map(cfg, generate)
	if err != nil {
		return nil, "", err
	}
	g, err := m.Grid(cfg.Map.Obstacles, cfg.Map.Conn())
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return g, name, nil
}

// EventBus returns a bus with a logging subscriber attached at level
func EventBus(logger zerolog.Logger, level zerolog.Level) *events.EventBus {
	bus := events.NewEventBus()
	bus.Subscribe(subscribers.NewLoggerSubscriber("event_logger", logger, level))
	return bus
}
