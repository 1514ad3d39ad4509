// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/vectorspace/pkg/engine"
	"github.com/opd-ai/vectorspace/pkg/logging"
)

// Frame order: input, simulation step, camera, drawing, HUD
const (
	inputPriority  = 50
	stepPriority   = 40
	cameraPriority = 30
	drawPriority   = 20
	hudPriority    = 10
)

// GameScene runs a simulation session in an engo window
type GameScene struct {
	game     *engine.Game
	logger   *logging.Logger
	fontPath string

	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates a scene driving game. fontPath names a TTF file
// for the status text; the HUD shows only bars when it is empty.
func NewGameScene(game *engine.Game, logger *logging.Logger, fontPath string) *GameScene {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &GameScene{
		game:     game,
		logger:   logger,
		fontPath: fontPath,
		assets:   NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "VectorspaceScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if scene.fontPath == "" {
		return
	}
	if err := engo.Files.Load(scene.fontPath); err != nil {
		scene.logger.Error(context.Background(), "failed to load font", err, "path", scene.fontPath)
		scene.fontPath = ""
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)

	SetupInputBindings()
	common.SetBackground(color.Black)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(context.Background(), "failed to load assets", err)
	}

	scene.camera = NewCameraSystem()
	scene.hud = NewHUDSystem(renderSystem, scene.loadFont())
	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.assets, scene.hud)
	scene.input = NewInputSystem(scene.game.Ship, nil)

	world.AddSystem(scene.input)
	world.AddSystem(&stepSystem{scene: scene})
	world.AddSystem(&prioritized{System: scene.camera, priority: cameraPriority})
	world.AddSystem(&drawSystem{scene: scene})
	world.AddSystem(&prioritized{System: scene.hud, priority: hudPriority})

	scene.game.Start()
}

// Exit is called when the window closes (required by Engo)
func (scene *GameScene) Exit() {
	scene.game.Stop()
}

func (scene *GameScene) loadFont() *common.Font {
	if scene.fontPath == "" {
		return nil
	}
	fnt := &common.Font{URL: scene.fontPath, FG: color.White, Size: 14}
	if err := fnt.CreatePreloaded(); err != nil {
		scene.logger.Error(context.Background(), "failed to create font", err, "path", scene.fontPath)
		return nil
	}
	return fnt
}

// stepSystem advances the simulation by the wall time since the last
// frame and points the camera at the ship
type stepSystem struct {
	scene *GameScene
}

func (s *stepSystem) Remove(ecs.BasicEntity) {}

func (s *stepSystem) Priority() int { return stepPriority }

func (s *stepSystem) Update(float32) {
	g := s.scene.game
	if err := g.Update(); err != nil {
		s.scene.logger.Error(context.Background(), "simulation step failed", err)
	}
	s.scene.camera.SetTarget(g.Ship.Position)
}

// drawSystem hands the game state to the renderer
type drawSystem struct {
	scene *GameScene
}

func (d *drawSystem) Remove(ecs.BasicEntity) {}

func (d *drawSystem) Priority() int { return drawPriority }

func (d *drawSystem) Update(float32) {
	d.scene.game.Draw(d.scene.renderer)
}

// prioritized gives a system a fixed place in the frame order
type prioritized struct {
	ecs.System
	priority int
}

func (p *prioritized) Priority() int { return p.priority }
