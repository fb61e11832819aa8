// Command pathd serves shortest-path queries over one map via gRPC.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/GridFastMap/internal/app"
	"github.com/mitchelldurbincs/GridFastMap/internal/config"
	"github.com/mitchelldurbincs/GridFastMap/internal/logging"
	"github.com/mitchelldurbincs/GridFastMap/internal/monitoring"
	"github.com/mitchelldurbincs/GridFastMap/internal/server"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay (merges config.<env>.yaml)")
	mapPath := flag.String("map", "", "Map file to serve (empty to use config default)")
	generate := flag.Bool("generate", false, "Serve a generated map when no map file is given")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	metricsPort := flag.Int("metrics-port", -1, "Prometheus metrics port, 0 disables (-1 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	watch := flag.Bool("watch-config", false, "Reload the config file when it changes")
	flag.Parse()

	// Initialize configuration
	cfg, err := app.Init(*configPath, *env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	// Use config defaults if not overridden by flags
	if *mapPath != "" {
		cfg.Map.Path = *mapPath
	}
	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *metricsPort == -1 {
		*metricsPort = cfg.Server.MetricsPort
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	// For enableReflection, use config if flag not explicitly set to true
	if !*enableReflection {
		*enableReflection = cfg.Server.EnableReflection
	}

	logging.Setup(*logLevel, cfg.Logging.Format)

	g, mapName, err := app.Grid(cfg, *generate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load map")
	}

	srv, err := server.NewServer(g,
		server.WithMapName(mapName),
		server.WithDefaultHeuristic(cfg.Search.Heuristic),
		server.WithMaxExpansions(cfg.Search.MaxExpansions),
		server.WithFastMapOptions(cfg.FastMap.Options()...),
		server.WithEventBus(app.EventBus(log.Logger, zerolog.DebugLevel)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create path server")
	}

	log.Info().
		Str("map", mapName).
		Int("rows", g.Rows()).
		Int("cols", g.Cols()).
		Int("embedding_dims", srv.Embedding().Dims()).
		Int("port", *port).
		Str("host", *host).
		Msg("Starting gRPC path server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}

	grpcServer, healthServer := server.NewGRPCServer(srv, *enableReflection)

	var metricsServer *http.Server
	if *metricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", *host, *metricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("address", metricsServer.Addr).Msg("Metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	monitor := monitoring.NewGoroutineMonitor()
	monitor.Start()
	defer monitor.Stop()

	if *watch {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Rejected config change")
				return
			}
			// the served map and embedding are fixed; only logging follows the file
			logging.Setup(c.Logging.Level, c.Logging.Format)
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		})
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		server.SetServing(healthServer, false)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GracefulShutdownDelay) * time.Second)

		log.Info().Msg("Gracefully stopping gRPC server")
		grpcServer.GracefulStop()
		if metricsServer != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		cancel()
	}()

	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("Server shutdown complete")
}
