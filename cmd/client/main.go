// cmd/client/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/vectorspace/pkg/audio"
	"github.com/opd-ai/vectorspace/pkg/config"
	"github.com/opd-ai/vectorspace/pkg/engine"
	"github.com/opd-ai/vectorspace/pkg/generate"
	"github.com/opd-ai/vectorspace/pkg/logging"
	engorender "github.com/opd-ai/vectorspace/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (overrides VECTORSPACE_CONFIG_PATH)")
	renderer := flag.String("renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	scale := flag.Float64("scale", 25, "World units per terminal column (terminal only)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 1024, "Window width (Engo only)")
	height := flag.Int("height", 768, "Window height (Engo only)")
	fontPath := flag.String("font", "", "TTF font for the status text (Engo only)")
	mute := flag.Bool("mute", false, "Disable sound")
	flag.Parse()

	env, err := config.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}
	if *configPath == "" {
		*configPath = env.ConfigPath
	}

	// The terminal owns stdout while the game runs
	logger := logging.NewLogger()
	if *renderer != "engo" {
		logFile, err := os.OpenFile(env.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logger = logging.NewLoggerTo(logFile)
	}
	ctx := context.Background()

	gameConfig, err := loadGameConfig(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	game, err := engine.NewGame(gameConfig, generate.New(gameConfig), logger)
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		fmt.Fprintf(os.Stderr, "failed to create game: %v\n", err)
		os.Exit(1)
	}

	if !*mute {
		sound := audio.NewSoundManager(logger)
		if err := sound.Initialize(); err != nil {
			logger.Warn(ctx, "Sound disabled", "error", err)
		} else {
			defer sound.Cleanup()
			for _, sub := range sound.Subscribe(game.EventBus) {
				defer sub.Cancel()
			}
		}
	}

	switch *renderer {
	case "engo":
		startEngoRenderer(game, logger, *fontPath, *width, *height, *fullscreen)
	case "terminal":
		fallthrough
	default:
		if err := startTerminalRenderer(game, logger, *scale); err != nil {
			logger.Error(ctx, "Terminal client failed", err)
			fmt.Fprintf(os.Stderr, "terminal client failed: %v\n", err)
			os.Exit(1)
		}
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

// startEngoRenderer opens a window and blocks until it closes
func startEngoRenderer(game *engine.Game, logger *logging.Logger, fontPath string, width, height int, fullscreen bool) {
	scene := engorender.NewGameScene(game, logger, fontPath)

	opts := engo.RunOptions{
		Title:      "Vectorspace",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}

	engo.Run(opts, scene)
}

// startTerminalRenderer runs the game in the terminal until the player
// quits or the process is signalled
func startTerminalRenderer(game *engine.Game, logger *logging.Logger, scale float64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runTerminal(ctx, screen, game, logger, scale)
}
