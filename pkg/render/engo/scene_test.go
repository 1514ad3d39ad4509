// pkg/render/engo/scene_test.go
package engo

import (
	"io"
	"testing"

	"github.com/opd-ai/vectorspace/pkg/config"
	"github.com/opd-ai/vectorspace/pkg/engine"
	"github.com/opd-ai/vectorspace/pkg/logging"
)

func newTestScene(t *testing.T) *GameScene {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Generator.Enabled = false
	cfg.Agents.Count = 1
	cfg.Bodies = []config.BodyConfig{
		{Kind: "static", X: 300, Y: 0, Radius: 50, Mass: 100},
	}

	logger := logging.NewLoggerTo(io.Discard)
	game, err := engine.NewGame(cfg, nil, logger)
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}

	scene := NewGameScene(game, logger, "")
	sprites := newFakeSprites()
	scene.camera = NewCameraSystem()
	scene.camera.SetViewport(800, 600)
	scene.hud = NewHUDSystem(sprites, nil)
	scene.renderer = NewEngoRenderer(sprites, scene.camera, scene.assets, scene.hud)
	return scene
}

func TestGameScene_Type(t *testing.T) {
	scene := NewGameScene(nil, nil, "")

	if got := scene.Type(); got != "VectorspaceScene" {
		t.Errorf("Type() = %q, want %q", got, "VectorspaceScene")
	}
}

func TestGameScene_PreloadWithoutFont(t *testing.T) {
	scene := NewGameScene(nil, logging.NewLoggerTo(io.Discard), "")

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Preload panicked: %v", r)
		}
	}()
	scene.Preload()

	if scene.loadFont() != nil {
		t.Error("loadFont() returned a font without a path")
	}
}

func TestGameScene_FrameOrder(t *testing.T) {
	scene := newTestScene(t)

	order := []struct {
		name     string
		priority int
	}{
		{"input", (&InputSystem{}).Priority()},
		{"step", (&stepSystem{scene: scene}).Priority()},
		{"camera", (&prioritized{System: scene.camera, priority: cameraPriority}).Priority()},
		{"draw", (&drawSystem{scene: scene}).Priority()},
		{"hud", (&prioritized{System: scene.hud, priority: hudPriority}).Priority()},
	}

	for i := 1; i < len(order); i++ {
		if order[i-1].priority <= order[i].priority {
			t.Errorf("%s (%d) does not run before %s (%d)",
				order[i-1].name, order[i-1].priority, order[i].name, order[i].priority)
		}
	}
}

func TestGameScene_StepAndDraw(t *testing.T) {
	scene := newTestScene(t)
	scene.game.Start()

	(&stepSystem{scene: scene}).Update(0.016)
	(&drawSystem{scene: scene}).Update(0.016)

	if scene.game.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", scene.game.Ticks())
	}
	if got := scene.camera.GetCurrentPosition(); !got.Equal(scene.game.Ship.Position) {
		t.Errorf("camera at %v, ship at %v", got, scene.game.Ship.Position)
	}
	// one body, one agent, one ship
	if n := scene.renderer.Sprites(); n != 3 {
		t.Errorf("Sprites() = %d, want 3", n)
	}
	if !scene.hud.hasShip {
		t.Error("HUD did not receive the ship")
	}
}

func TestGameScene_Exit(t *testing.T) {
	scene := newTestScene(t)
	scene.game.Start()

	scene.Exit()

	if scene.game.Running {
		t.Error("game still running after Exit")
	}
}
