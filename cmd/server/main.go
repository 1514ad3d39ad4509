// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/vectorspace/pkg/config"
	"github.com/opd-ai/vectorspace/pkg/engine"
	"github.com/opd-ai/vectorspace/pkg/generate"
	"github.com/opd-ai/vectorspace/pkg/health"
	"github.com/opd-ai/vectorspace/pkg/logging"
	"github.com/opd-ai/vectorspace/pkg/render"
)

const (
	maxHeapMB      = 500
	statusInterval = 5 * time.Second
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "", "Path to configuration file (overrides VECTORSPACE_CONFIG_PATH)")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	flag.Parse()

	env, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to read environment", err)
		os.Exit(1)
	}
	if *configPath == "" {
		*configPath = env.ConfigPath
	}

	if *createDefault {
		if *configPath == "" {
			*configPath = "config.json"
		}
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	gameConfig, err := loadGameConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	game, err := engine.NewGame(gameConfig, generate.New(gameConfig), logger)
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}

	tick := time.Second / time.Duration(gameConfig.Server.TickRate)

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewSimulationHealthCheck(game.LastTick, 10*tick+time.Second))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(maxHeapMB, health.HeapMB))
	healthChecker.SetTimeout(env.ReadTimeout)
	healthChecker.SetProgress(func() health.Progress {
		return health.Progress{
			Session:  game.Session(),
			Tick:     game.Ticks(),
			LastTick: game.LastTick(),
		}
	})

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", gameConfig.Server.HealthPort),
		Handler:      healthChecker.Handler(),
		ReadTimeout:  env.ReadTimeout,
		WriteTimeout: env.ReadTimeout,
	}

	go func() {
		logger.Info(ctx, "Starting health check server",
			"address", healthServer.Addr,
		)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting simulation",
		"seed", gameConfig.World.Seed,
		"tick_rate", gameConfig.Server.TickRate,
		"bodies", game.World.Len(),
		"agents", len(game.Agents),
	)

	renderer := render.NewNullRenderer(logger)
	if err := runLoop(runCtx, game, renderer, tick, logger); err != nil {
		logger.Error(ctx, "Simulation failed", err)
	}

	logger.Info(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
}

// loadGameConfig reads path, or the defaults when path is empty or
// missing, and applies the environment on top
func loadGameConfig(path string) (*config.GameConfig, error) {
	gameConfig := config.DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if gameConfig, err = config.LoadConfig(path); err != nil {
				return nil, err
			}
		}
	}

	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, fmt.Errorf("failed to apply environment configuration: %w", err)
	}
	return gameConfig, nil
}

// runLoop steps game by a fixed tick until ctx is done, drawing after
// every step and logging a status line now and then
func runLoop(ctx context.Context, game *engine.Game, r engine.Renderer, tick time.Duration, logger *logging.Logger) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	game.Start()
	defer game.Stop()

	lastStatus := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := game.Step(tick.Seconds()); err != nil {
			return err
		}
		game.Draw(r)

		if time.Since(lastStatus) >= statusInterval {
			lastStatus = time.Now()
			logger.Info(ctx, "simulation status",
				"tick", game.Ticks(),
				"ship_x", game.Ship.Position.X,
				"ship_y", game.Ship.Position.Y,
				"health", game.Ship.Health,
			)
		}
	}
}
