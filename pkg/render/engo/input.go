// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// Button names registered by SetupInputBindings
const (
	buttonUp         = "up"
	buttonDown       = "down"
	buttonLeft       = "left"
	buttonRight      = "right"
	buttonBrake      = "brake"
	buttonThrustUp   = "thrustUp"
	buttonThrustDown = "thrustDown"
	buttonQuit       = "quit"
	buttonZoomIn     = "zoomIn"
	buttonZoomOut    = "zoomOut"
	buttonResetZoom  = "resetZoom"
)

// Buttons reports whether a named button is held
type Buttons interface {
	Down(name string) bool
}

// engoButtons reads engo's global input manager
type engoButtons struct{}

func (engoButtons) Down(name string) bool {
	return engo.Input.Button(name).Down()
}

// InputSystem turns held buttons into ship controls every frame. It only
// calls the ship's setters.
type InputSystem struct {
	ship    *entity.Ship
	buttons Buttons
	onQuit  func()
}

// NewInputSystem creates an input system reading engo's buttons. onQuit
// runs when the quit button is held; nil means engo.Exit.
func NewInputSystem(ship *entity.Ship, onQuit func()) *InputSystem {
	if onQuit == nil {
		onQuit = engo.Exit
	}
	return &InputSystem{ship: ship, buttons: engoButtons{}, onQuit: onQuit}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Priority makes input run before the simulation step
func (is *InputSystem) Priority() int { return inputPriority }

// Update applies the held buttons to the ship
func (is *InputSystem) Update(float32) {
	b := is.buttons
	if b.Down(buttonQuit) {
		is.onQuit()
		return
	}

	var dir physics.Vector2D
	if b.Down(buttonUp) {
		dir.Y--
	}
	if b.Down(buttonDown) {
		dir.Y++
	}
	if b.Down(buttonLeft) {
		dir.X--
	}
	if b.Down(buttonRight) {
		dir.X++
	}
	is.ship.Steer(dir.Normalize())

	if b.Down(buttonBrake) {
		is.ship.Brake()
	} else {
		is.ship.Release()
	}

	thrust := 0
	if b.Down(buttonThrustUp) {
		thrust++
	}
	if b.Down(buttonThrustDown) {
		thrust--
	}
	is.ship.SetThrustDirection(thrust)
}

// SetupInputBindings registers the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonUp, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(buttonDown, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(buttonLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(buttonRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(buttonBrake, engo.KeySpace)
	engo.Input.RegisterButton(buttonThrustUp, engo.KeyE)
	engo.Input.RegisterButton(buttonThrustDown, engo.KeyQ)
	engo.Input.RegisterButton(buttonQuit, engo.KeyEscape)
	engo.Input.RegisterButton(buttonZoomIn, engo.KeyZ)
	engo.Input.RegisterButton(buttonZoomOut, engo.KeyX)
	engo.Input.RegisterButton(buttonResetZoom, engo.KeyR)
}
