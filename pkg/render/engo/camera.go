// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/vectorspace/pkg/physics"
)

// CameraSystem follows the player's ship and maps world coordinates to
// window coordinates
type CameraSystem struct {
	// Target to follow
	target    physics.Vector2D
	targetSet bool

	// Camera properties
	zoom    float32
	minZoom float32
	maxZoom float32

	// Smooth following
	followSpeed  float32
	smoothing    bool
	snapDistance float64 // jumps longer than this, e.g. a wrap, are not smoothed

	// Window size; zero means the engo game size
	width, height float32

	currentPos physics.Vector2D
}

// NewCameraSystem creates a new camera system
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		zoom:         0.25,
		minZoom:      0.05,
		maxZoom:      3.0,
		followSpeed:  4.0,
		smoothing:    true,
		snapDistance: 1000,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(ecs.BasicEntity) {}

// Update handles zoom keys and moves the camera towards its target
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()

	if cs.targetSet {
		cs.updateCameraPosition(dt)
	}
}

func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + scrollY*0.1))
	}
	if engo.Input.Button(buttonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(buttonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button(buttonResetZoom).JustPressed() {
		cs.SetZoom(NewCameraSystem().zoom)
	}
}

// updateCameraPosition moves the camera towards the target
func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing || cs.currentPos.Distance(cs.target) > cs.snapDistance {
		cs.currentPos = cs.target
		return
	}

	step := float64(cs.followSpeed) * float64(dt)
	if step > 1 {
		step = 1
	}
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Scale(step))
}

// SetTarget sets the position the camera follows. The first target is
// adopted immediately.
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true

	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// SetFollowSpeed sets how quickly the camera catches up, per second
func (cs *CameraSystem) SetFollowSpeed(speed float32) {
	cs.followSpeed = speed
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// SetViewport fixes the window size used for the transform
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.width, cs.height = width, height
}

func (cs *CameraSystem) viewport() (float32, float32) {
	if cs.width > 0 && cs.height > 0 {
		return cs.width, cs.height
	}
	return engo.GameWidth(), engo.GameHeight()
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts world coordinates to window coordinates
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	w, h := cs.viewport()
	rel := worldPos.Sub(cs.currentPos).Scale(float64(cs.zoom))
	return physics.Vector2D{X: rel.X + float64(w/2), Y: rel.Y + float64(h/2)}
}

// ScreenToWorld converts window coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	w, h := cs.viewport()
	rel := physics.Vector2D{X: screenPos.X - float64(w/2), Y: screenPos.Y - float64(h/2)}
	return rel.Scale(1 / float64(cs.zoom)).Add(cs.currentPos)
}

// Scale converts a world length to window pixels
func (cs *CameraSystem) Scale(length float64) float32 {
	return float32(length * float64(cs.zoom))
}
