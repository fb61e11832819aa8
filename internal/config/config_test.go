package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

func reset() {
	cfg = nil
	v = nil
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
map:
  path: maps/arena.map
  connectivity: 4
search:
  heuristic: fastmap
fastmap:
  max_dims: 3
  projection: cosines
server:
  port: 8080
`)
	reset()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, "maps/arena.map", c.Map.Path)
	assert.Equal(t, grid.Conn4, c.Map.Conn())
	assert.Equal(t, "fastmap", c.Search.Heuristic)
	assert.Equal(t, 3, c.FastMap.MaxDims)
	assert.Equal(t, "cosines", c.FastMap.Projection)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, "@#", c.Map.Obstacles)
	assert.Equal(t, 8, c.Map.Connectivity)
	assert.Equal(t, "octile", c.Search.Heuristic)
	assert.Equal(t, 5, c.FastMap.MaxDims)
	assert.Equal(t, 1e-3, c.FastMap.Epsilon)
	assert.Equal(t, 1, c.FastMap.PivotRounds)
	assert.Equal(t, []string{"manhattan", "octile", "fastmap"}, c.Benchmark.Heuristics)
	assert.Equal(t, 50061, c.Server.Port)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitRejectsMalformedFile(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", "map: [unclosed\n")
	reset()
	assert.Error(t, Init(configFile))
}

func TestInitRejectsInvalidValues(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", "search:\n  heuristic: euclid\n")
	reset()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("GRIDFASTMAP_FASTMAP_MAX_DIMS", "7")
	t.Setenv("GRIDFASTMAP_SERVER_PORT", "9090")
	t.Setenv("GRIDFASTMAP_LOGGING_FORMAT", "json")

	reset()
	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 7, c.FastMap.MaxDims)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestSet(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	require.NoError(t, Set("fastmap.max_dims", 2))
	require.NoError(t, Set("generator.width", 128))

	c := Get()
	assert.Equal(t, 2, c.FastMap.MaxDims)
	assert.Equal(t, 128, c.Generator.Width)
}

func TestGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	require.NoError(t, Set("test.string", "hello"))
	require.NoError(t, Set("test.int", 42))
	require.NoError(t, Set("test.bool", true))
	require.NoError(t, Set("test.float", 3.14))

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := writeConfig(t, tmpDir, "config.yaml", `
fastmap:
  max_dims: 5
server:
  port: 50061
`)
	writeConfig(t, tmpDir, "config.prod.yaml", `
fastmap:
  max_dims: 8
logging:
  format: json
`)

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("prod"))

	c := Get()
	assert.Equal(t, 8, c.FastMap.MaxDims)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, 50061, c.Server.Port)

	// missing overlay is not an error
	assert.NoError(t, LoadEnvironmentConfig("staging"))
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := writeConfig(t, dir, "config.yaml", "fastmap:\n  max_dims: 5\n")

	reset()
	require.NoError(t, Init(configFile))

	changes := make(chan int, 4)
	WatchConfig(func(c *Config, err error) {
		if err == nil {
			changes <- c.FastMap.MaxDims
		}
	})

	// give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(configFile, []byte("fastmap:\n  max_dims: 9\n"), 0o644))

	select {
	case dims := <-changes:
		assert.Equal(t, 9, dims)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		reset()
		require.NoError(t, Init(""))
		c := *Get()
		return &c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"Connectivity", func(c *Config) { c.Map.Connectivity = 6 }, "map.connectivity"},
		{"Heuristic", func(c *Config) { c.Search.Heuristic = "euclid" }, "search.heuristic"},
		{"MaxExpansions", func(c *Config) { c.Search.MaxExpansions = -1 }, "search.max_expansions"},
		{"MaxDims", func(c *Config) { c.FastMap.MaxDims = -1 }, "fastmap.max_dims"},
		{"Epsilon", func(c *Config) { c.FastMap.Epsilon = -1 }, "fastmap.epsilon"},
		{"Projection", func(c *Config) { c.FastMap.Projection = "sphere" }, "fastmap.projection"},
		{"EmptyBenchmark", func(c *Config) { c.Benchmark.Heuristics = nil }, "benchmark.heuristics"},
		{"UnknownBenchmark", func(c *Config) { c.Benchmark.Heuristics = []string{"octile", "nope"} }, "nope"},
		{"GeneratorSize", func(c *Config) { c.Generator.Width = 0 }, "generator dimensions"},
		{"GeneratorWeights", func(c *Config) {
			c.Generator.OpenWeight, c.Generator.RockWeight, c.Generator.TreeWeight = 0, 0, 0
		}, "must not all be zero"},
		{"VeinRatio", func(c *Config) { c.Generator.Veins.MaxLengthRatio = 2 }, "max_length_ratio"},
		{"Port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			require.NoError(t, Validate(c))
			tt.mutate(c)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConversions(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	c := Get()

	t.Run("FastMapOptions", func(t *testing.T) {
		fc := c.FastMap
		fc.MaxDims = 3
		fc.Projection = "cosines"
		fc.UseSeed = true
		fc.Seed = 11

		o := fastmap.DefaultOptions()
		for _, opt := range fc.Options() {
			opt(&o)
		}
		assert.Equal(t, 3, o.MaxDims)
		assert.Equal(t, fastmap.LawOfCosines, o.Projection)
		assert.True(t, o.UseSeed)
		assert.Equal(t, int64(11), o.Seed)
	})

	t.Run("MapGenConfig", func(t *testing.T) {
		gc := c.Generator
		gc.Width, gc.Height = 40, 20
		mc := gc.MapGenConfig()
		assert.Equal(t, 40, mc.Width)
		assert.Equal(t, 20, mc.Height)
		assert.Equal(t, 16, mc.NumVeins)
		assert.Equal(t, 3, mc.MinVeinLength)
		assert.Equal(t, 10, mc.MaxVeinLength)
		require.Len(t, mc.Terrain, 3)
		assert.Equal(t, 0.60, mc.Terrain[0].Weight)
	})
}
