package render

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

// DefaultHoldWindow is how long a key counts as held after its last
// repeat. Terminals report presses only, never releases.
const DefaultHoldWindow = 150 * time.Millisecond

// InputHandler turns terminal key presses into ship controls. It only
// calls the ship's setters.
type InputHandler struct {
	ship *entity.Ship
	hold time.Duration

	steer     physics.Vector2D
	steerAt   time.Time
	brakeAt   time.Time
	braking   bool
	thrustAt  time.Time
	thrusting bool
}

// NewInputHandler creates a handler controlling ship
func NewInputHandler(ship *entity.Ship, hold time.Duration) *InputHandler {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	return &InputHandler{ship: ship, hold: hold}
}

// SetShip points the handler at another ship
func (h *InputHandler) SetShip(ship *entity.Ship) {
	h.ship = ship
}

// HandleKey applies ev at time now. It returns true when the player asked
// to quit.
func (h *InputHandler) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		h.press(physics.Vector2D{Y: -1}, now)
	case tcell.KeyDown:
		h.press(physics.Vector2D{Y: 1}, now)
	case tcell.KeyLeft:
		h.press(physics.Vector2D{X: -1}, now)
	case tcell.KeyRight:
		h.press(physics.Vector2D{X: 1}, now)
	case tcell.KeyRune:
		return h.handleRune(ev.Rune(), now)
	}
	return false
}

func (h *InputHandler) handleRune(r rune, now time.Time) bool {
	switch r {
	case 'w', 'W':
		h.press(physics.Vector2D{Y: -1}, now)
	case 's', 'S':
		h.press(physics.Vector2D{Y: 1}, now)
	case 'a', 'A':
		h.press(physics.Vector2D{X: -1}, now)
	case 'd', 'D':
		h.press(physics.Vector2D{X: 1}, now)
	case ' ':
		h.braking = true
		h.brakeAt = now
		h.ship.Brake()
	case 'e', 'E':
		h.thrusting = true
		h.thrustAt = now
		h.ship.SetThrustDirection(1)
	case 'q', 'Q':
		h.thrusting = true
		h.thrustAt = now
		h.ship.SetThrustDirection(-1)
	case 'x', 'X':
		return true
	}
	return false
}

// press sets the axis of dir in the held steering. Keys for different
// axes pressed within one hold window combine into a diagonal; the latest
// key wins on its own axis.
func (h *InputHandler) press(dir physics.Vector2D, now time.Time) {
	if now.Sub(h.steerAt) > h.hold {
		h.steer = physics.Vector2D{}
	}
	if dir.X != 0 {
		h.steer.X = dir.X
	}
	if dir.Y != 0 {
		h.steer.Y = dir.Y
	}
	h.steerAt = now
	h.ship.Steer(h.steer.Normalize())
}

// Expire releases every control whose key has not repeated within the
// hold window
func (h *InputHandler) Expire(now time.Time) {
	if !h.steer.IsZero() && now.Sub(h.steerAt) > h.hold {
		h.steer = physics.Vector2D{}
		h.ship.Steer(physics.Vector2D{})
	}
	if h.braking && now.Sub(h.brakeAt) > h.hold {
		h.braking = false
		h.ship.Release()
	}
	if h.thrusting && now.Sub(h.thrustAt) > h.hold {
		h.thrusting = false
		h.ship.SetThrustDirection(0)
	}
}
