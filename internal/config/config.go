package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/GridFastMap/internal/fastmap"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/heuristic"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapgen"
)

// Config holds all configuration for the application
type Config struct {
	Map       MapConfig       `mapstructure:"map"`
	Search    SearchConfig    `mapstructure:"search"`
	FastMap   FastMapConfig   `mapstructure:"fastmap"`
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// MapConfig selects the map and how its characters are read
type MapConfig struct {
	Path         string `mapstructure:"path"`
	Scenario     string `mapstructure:"scenario"`
	Obstacles    string `mapstructure:"obstacles"`
	Connectivity int    `mapstructure:"connectivity"`
}

// SearchConfig holds single-query settings
type SearchConfig struct {
	Heuristic     string `mapstructure:"heuristic"`
	MaxExpansions int    `mapstructure:"max_expansions"`
}

// FastMapConfig holds embedding settings
type FastMapConfig struct {
	MaxDims     int     `mapstructure:"max_dims"`
	Epsilon     float64 `mapstructure:"epsilon"`
	PivotRounds int     `mapstructure:"pivot_rounds"`
	Projection  string  `mapstructure:"projection"`
	Seed        int64   `mapstructure:"seed"`
	UseSeed     bool    `mapstructure:"use_seed"`
}

// BenchmarkConfig holds heuristic comparison settings
type BenchmarkConfig struct {
	Heuristics []string `mapstructure:"heuristics"`
	MaxQueries int      `mapstructure:"max_queries"`
	// Parallel is the number of heuristics searched at once; 0 means all
	Parallel  int     `mapstructure:"parallel"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// GeneratorConfig holds random map settings
type GeneratorConfig struct {
	Width      int        `mapstructure:"width"`
	Height     int        `mapstructure:"height"`
	Seed       int64      `mapstructure:"seed"`
	OpenWeight float64    `mapstructure:"open_weight"`
	RockWeight float64    `mapstructure:"rock_weight"`
	TreeWeight float64    `mapstructure:"tree_weight"`
	Veins      VeinConfig `mapstructure:"veins"`
	Scenarios  int        `mapstructure:"scenarios"`
}

// VeinConfig holds obstacle vein generation settings
type VeinConfig struct {
	Ratio          int     `mapstructure:"ratio"`
	MinLength      int     `mapstructure:"min_length"`
	MaxLengthRatio float64 `mapstructure:"max_length_ratio"`
}

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	MetricsPort           int    `mapstructure:"metrics_port"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("map.path", "")
	v.SetDefault("map.scenario", "")
	v.SetDefault("map.obstacles", mapfile.DefaultObstacles)
	v.SetDefault("map.connectivity", 8)

	v.SetDefault("search.heuristic", heuristic.NameOctile)
	v.SetDefault("search.max_expansions", 0)

	v.SetDefault("fastmap.max_dims", 5)
	v.SetDefault("fastmap.epsilon", 1e-3)
	v.SetDefault("fastmap.pivot_rounds", 1)
	v.SetDefault("fastmap.projection", "midpoint")
	v.SetDefault("fastmap.seed", 0)
	v.SetDefault("fastmap.use_seed", false)

	v.SetDefault("benchmark.heuristics", []string{heuristic.NameManhattan, heuristic.NameOctile, heuristic.NameFastMap})
	v.SetDefault("benchmark.max_queries", 0)
	v.SetDefault("benchmark.parallel", 0)
	v.SetDefault("benchmark.tolerance", 1e-6)

	v.SetDefault("generator.width", 64)
	v.SetDefault("generator.height", 64)
	v.SetDefault("generator.seed", 1)
	v.SetDefault("generator.open_weight", 0.60)
	v.SetDefault("generator.rock_weight", 0.20)
	v.SetDefault("generator.tree_weight", 0.20)
	v.SetDefault("generator.veins.ratio", 50)
	v.SetDefault("generator.veins.min_length", 3)
	v.SetDefault("generator.veins.max_length_ratio", 0.25)
	v.SetDefault("generator.scenarios", 100)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50061)
	v.SetDefault("server.metrics_port", 9464)
	v.SetDefault("server.enable_reflection", false)
	v.SetDefault("server.graceful_shutdown_delay", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration. A missing file at configPath is not an
// error; defaults and environment variables still apply.
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/gridfastmap")
	}

	v.SetEnvPrefix("GRIDFASTMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			// no file; defaults and environment only
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	v.Set(key, value)
	return v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives the
// reloaded config, or the validation error when the new file is rejected; a
// rejected file leaves the previous config in place.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			*cfg = *next
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if _, err := grid.ParseConnectivity(c.Map.Connectivity); err != nil {
		return fmt.Errorf("map.connectivity must be 4 or 8")
	}

	if !knownHeuristic(c.Search.Heuristic) {
		return fmt.Errorf("search.heuristic must be one of %v", heuristic.Names())
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("search.max_expansions must be non-negative")
	}

	if c.FastMap.MaxDims < 0 {
		return fmt.Errorf("fastmap.max_dims must be non-negative")
	}
	if c.FastMap.Epsilon < 0 {
		return fmt.Errorf("fastmap.epsilon must be non-negative")
	}
	if c.FastMap.PivotRounds < 0 {
		return fmt.Errorf("fastmap.pivot_rounds must be non-negative")
	}
	if _, err := fastmap.ParseProjection(c.FastMap.Projection); err != nil {
		return fmt.Errorf("fastmap.projection must be midpoint or cosines")
	}

	if len(c.Benchmark.Heuristics) == 0 {
		return fmt.Errorf("benchmark.heuristics must not be empty")
	}
	for _, name := range c.Benchmark.Heuristics {
		if !knownHeuristic(name) {
			return fmt.Errorf("benchmark.heuristics: unknown heuristic %q", name)
		}
	}
	if c.Benchmark.MaxQueries < 0 {
		return fmt.Errorf("benchmark.max_queries must be non-negative")
	}
	if c.Benchmark.Parallel < 0 {
		return fmt.Errorf("benchmark.parallel must be non-negative")
	}
	if c.Benchmark.Tolerance < 0 {
		return fmt.Errorf("benchmark.tolerance must be non-negative")
	}

	if c.Generator.Width <= 0 || c.Generator.Height <= 0 {
		return fmt.Errorf("generator dimensions must be positive")
	}
	if c.Generator.OpenWeight < 0 || c.Generator.RockWeight < 0 || c.Generator.TreeWeight < 0 {
		return fmt.Errorf("generator weights must be non-negative")
	}
	if c.Generator.OpenWeight+c.Generator.RockWeight+c.Generator.TreeWeight <= 0 {
		return fmt.Errorf("generator weights must not all be zero")
	}
	if c.Generator.Veins.Ratio < 0 {
		return fmt.Errorf("generator.veins.ratio must be non-negative")
	}
	if c.Generator.Veins.MinLength < 1 {
		return fmt.Errorf("generator.veins.min_length must be at least 1")
	}
	if c.Generator.Veins.MaxLengthRatio <= 0 || c.Generator.Veins.MaxLengthRatio > 1 {
		return fmt.Errorf("generator.veins.max_length_ratio must be between 0 and 1")
	}
	if c.Generator.Scenarios < 0 {
		return fmt.Errorf("generator.scenarios must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port must be between 0 and 65535")
	}
	if c.Server.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.graceful_shutdown_delay must be non-negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

func knownHeuristic(name string) bool {
	return slices.Contains(heuristic.Names(), name)
}

// Conn returns the map neighborhood, falling back to 8-connected
func (m MapConfig) Conn() grid.Connectivity {
	conn, err := grid.ParseConnectivity(m.Connectivity)
	if err != nil {
		return grid.Conn8
	}
	return conn
}

// Options converts the section into fastmap build options
func (f FastMapConfig) Options() []fastmap.Option {
	proj, _ := fastmap.ParseProjection(f.Projection)
	opts := []fastmap.Option{
		fastmap.WithMaxDims(f.MaxDims),
		fastmap.WithEpsilon(f.Epsilon),
		fastmap.WithPivotRounds(f.PivotRounds),
		fastmap.WithProjection(proj),
	}
	if f.UseSeed {
		opts = append(opts, fastmap.WithSeed(f.Seed))
	}
	return opts
}

// MapGenConfig converts the section into a generator configuration
func (g GeneratorConfig) MapGenConfig() mapgen.MapConfig {
	mc := mapgen.DefaultMapConfig(g.Width, g.Height)
	mc.Terrain = []mapgen.Terrain{
		{Symbol: '.', Weight: g.OpenWeight},
		{Symbol: '@', Weight: g.RockWeight},
		{Symbol: 'T', Weight: g.TreeWeight},
	}
	if g.Veins.Ratio > 0 {
		mc.NumVeins = (g.Width * g.Height) / g.Veins.Ratio
	} else {
		mc.NumVeins = 0
	}
	mc.MinVeinLength = g.Veins.MinLength
	mc.MaxVeinLength = max(g.Veins.MinLength, int(float64(g.Width)*g.Veins.MaxLengthRatio))
	return mc
}
