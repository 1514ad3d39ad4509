// pkg/render/engo/renderer.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/vectorspace/pkg/entity"
	"github.com/opd-ai/vectorspace/pkg/nav"
	"github.com/opd-ai/vectorspace/pkg/physics"
)

const (
	minSpritePixels = 2
	agentPixels     = 8
	shipPixels      = 16

	bodyZ  = 0
	agentZ = 1
	shipZ  = 2
)

// SpriteSystem is the part of common.RenderSystem the renderer needs
type SpriteSystem interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is one drawable entity owned by the renderer
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
	seen bool
}

// EngoRenderer implements engine.Renderer on top of engo's render system.
// It keeps one sprite per body, reuses agent sprites by index and drops
// whatever was not drawn in the last frame.
type EngoRenderer struct {
	sprites SpriteSystem
	camera  *CameraSystem
	assets  *AssetManager
	hud     *HUDSystem

	bodies     map[entity.ID]*sprite
	agents     []*sprite
	agentsUsed int
	ship       *sprite
	shipSeen   bool
}

// NewEngoRenderer creates a renderer that adds its sprites to sprites and
// positions them with camera. hud may be nil.
func NewEngoRenderer(sprites SpriteSystem, camera *CameraSystem, assets *AssetManager, hud *HUDSystem) *EngoRenderer {
	return &EngoRenderer{
		sprites: sprites,
		camera:  camera,
		assets:  assets,
		hud:     hud,
		bodies:  make(map[entity.ID]*sprite),
	}
}

// Clear implements engine.Renderer.
func (r *EngoRenderer) Clear() {
	for _, s := range r.bodies {
		s.seen = false
	}
	r.agentsUsed = 0
	r.shipSeen = false
}

// RenderBody implements engine.Renderer.
func (r *EngoRenderer) RenderBody(b entity.Body) {
	s, ok := r.bodies[b.ID]
	if !ok {
		s = r.newSprite(r.assets.BodyDrawable(), bodyZ)
		r.bodies[b.ID] = s
	}
	s.Color = BodyColor(b)
	r.place(s, b.Position, max(r.camera.Scale(2*b.Radius), minSpritePixels))
	s.seen = true
}

// RenderAgent implements engine.Renderer.
func (r *EngoRenderer) RenderAgent(a nav.Agent) {
	if r.agentsUsed == len(r.agents) {
		s := r.newSprite(r.assets.BodyDrawable(), agentZ)
		s.Color = agentColor
		r.agents = append(r.agents, s)
	}
	s := r.agents[r.agentsUsed]
	r.agentsUsed++
	r.place(s, a.Position(), agentPixels)
}

// RenderShip implements engine.Renderer.
func (r *EngoRenderer) RenderShip(s entity.Ship) {
	if r.ship == nil {
		r.ship = r.newSprite(r.assets.ShipDrawable(), shipZ)
	}
	r.ship.Color = ShipColor(s)
	r.place(r.ship, s.Position, shipPixels)
	if !s.Velocity.IsZero() {
		// the sprite points up at rotation zero
		r.ship.Rotation = float32(s.Velocity.Angle()*180/math.Pi + 90)
	}
	r.shipSeen = true

	if r.hud != nil {
		r.hud.SetShip(s)
	}
}

// Present implements engine.Renderer. Sprites that were not drawn since
// the last Clear are removed.
func (r *EngoRenderer) Present() {
	for id, s := range r.bodies {
		if !s.seen {
			r.sprites.Remove(s.BasicEntity)
			delete(r.bodies, id)
		}
	}
	for _, s := range r.agents[r.agentsUsed:] {
		r.sprites.Remove(s.BasicEntity)
	}
	r.agents = r.agents[:r.agentsUsed]

	if !r.shipSeen && r.ship != nil {
		r.sprites.Remove(r.ship.BasicEntity)
		r.ship = nil
	}
}

// Sprites returns the number of live sprites
func (r *EngoRenderer) Sprites() int {
	n := len(r.bodies) + len(r.agents)
	if r.ship != nil {
		n++
	}
	return n
}

func (r *EngoRenderer) newSprite(d common.Drawable, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = d
	s.SetZIndex(z)
	r.sprites.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// place centers s on the window position of pos
func (r *EngoRenderer) place(s *sprite, pos physics.Vector2D, size float32) {
	center := r.camera.WorldToScreen(pos)
	s.Width = size
	s.Height = size
	s.Position = engo.Point{
		X: float32(center.X) - size/2,
		Y: float32(center.Y) - size/2,
	}
}
